package users

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/queries"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type userPostgresRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

var (
	userPostgresRepositoryInstance contracts.UserRepository
	onceUserPostgresRepository     sync.Once
)

func NewUserPostgresRepository(db *sql.DB, logger *zap.Logger) contracts.UserRepository {
	onceUserPostgresRepository.Do(func() {
		userPostgresRepositoryInstance = &userPostgresRepository{
			DB:  db,
			Log: logger,
		}
	})
	return userPostgresRepositoryInstance
}

func (r *userPostgresRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.CreateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var id int64
	err := r.DB.QueryRowContext(ctx, queries.CreateUserQuery,
		user.Email, user.Username, user.Password, user.FirstName, user.LastName,
		user.BirthDate, string(user.Type), user.IsActive, user.IsStaff, user.IsSuperuser,
	).Scan(&id)
	if err != nil {
		r.Log.Error("userPostgresRepository.CreateUser error inserting user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrPostgresDBInsertData(err)
	}

	r.Log.Info("userPostgresRepository.CreateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, id),
	)
	return id, nil
}

func (r *userPostgresRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)
	return r.findOne(ctx, "id", userID)
}

func (r *userPostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.FindByEmail called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return r.findOne(ctx, "email", email)
}

func (r *userPostgresRepository) FindAll(ctx context.Context, filter *models.UserFilter) ([]models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var userType sql.NullString
	if filter != nil && filter.Type != nil {
		userType = sql.NullString{String: string(*filter.Type), Valid: true}
	}

	rows, err := r.DB.QueryContext(ctx, queries.FindAllUsersQuery, userType)
	if err != nil {
		r.Log.Error("userPostgresRepository.FindAll error querying users",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.Log.Error("userPostgresRepository.FindAll error scanning row",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}

	r.Log.Info("userPostgresRepository.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(users)),
	)
	return users, nil
}

func (r *userPostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.UpdateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, user.ID),
	)

	_, err := r.DB.ExecContext(ctx, queries.UpdateUserQuery,
		user.FirstName, user.LastName, user.BirthDate, user.IsActive, user.ID,
	)
	if err != nil {
		r.Log.Error("userPostgresRepository.UpdateUser error updating user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingUserIDKey, user.ID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBUpdateData(err)
	}

	r.Log.Info("userPostgresRepository.UpdateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, user.ID),
	)
	return nil
}

func (r *userPostgresRepository) DeleteByID(ctx context.Context, userID int64) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("userPostgresRepository.DeleteByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)

	_, err := r.DB.ExecContext(ctx, queries.DeleteUserByIDQuery, userID)
	if err != nil {
		r.Log.Error("userPostgresRepository.DeleteByID error deleting user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingUserIDKey, userID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBDeleteData(err)
	}

	r.Log.Info("userPostgresRepository.DeleteByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, userID),
	)
	return nil
}

func (r *userPostgresRepository) findOne(ctx context.Context, field string, value interface{}) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	query := fmt.Sprintf(queries.FindUserByFieldQueryTemplate, field)
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("userPostgresRepository.findOne no rows found",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			return nil, nil
		}
		r.Log.Error("userPostgresRepository.findOne error scanning row",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var userType string
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.FirstName, &user.LastName,
		&user.BirthDate, &userType, &user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.DateJoined, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Type = models.UserType(userType)
	return &user, nil
}
