package messaging

import (
	"bowell-service/internal/app/config"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const rabbitMQHeartbeat = 10 * time.Second

func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		driverConfig.RabbitMQ.Username,
		driverConfig.RabbitMQ.Password,
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
	)

	properties := amqp091.NewConnectionProperties()
	properties.SetClientConnectionName("bowell-service")

	conn, err := amqp091.DialConfig(connectionString, amqp091.Config{
		Heartbeat:  rabbitMQHeartbeat,
		Locale:     "en_US",
		Properties: properties,
	})
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}
