package queries

const userColumns = `id, email, username, password, first_name, last_name, birth_date, type,
	is_active, is_staff, is_superuser, date_joined, updated_at`

const (
	CreateUserQuery = `
	INSERT INTO users (email, username, password, first_name, last_name, birth_date, type, is_active, is_staff, is_superuser)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id`

	FindUserByFieldQueryTemplate = `SELECT ` + userColumns + ` FROM users WHERE %s = $1`

	FindAllUsersQuery = `SELECT ` + userColumns + ` FROM users
	WHERE ($1::varchar IS NULL OR type = $1)
	ORDER BY id`

	UpdateUserQuery = `
	UPDATE users
	SET first_name = $1, last_name = $2, birth_date = $3, is_active = $4, updated_at = NOW()
	WHERE id = $5`

	DeleteUserByIDQuery = `DELETE FROM users WHERE id = $1`
)
