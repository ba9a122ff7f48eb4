package reporting

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MarcosBrindi/roadswarm/internal/config"
)

// RabbitMQSink reenvía los reportes de accidentes a un exchange de
// RabbitMQ
type RabbitMQSink struct {
	config   config.RabbitMQConfig
	deviceID string
	conn     *amqp.Connection
	channel  *amqp.Channel
}

// NewRabbitMQSink conecta a RabbitMQ y declara el exchange
func NewRabbitMQSink(cfg config.RabbitMQConfig, deviceID string) (*RabbitMQSink, error) {
	url := fmt.Sprintf(
		"amqp://%s:%s@%s:%d/%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.VHost,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error conectando a RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error abriendo canal RabbitMQ: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		cfg.ExchangeType,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("error declarando exchange: %w", err)
	}

	fmt.Println("✅ [RabbitMQ] Sink conectado")
	fmt.Printf("📤 [RabbitMQ] Exchange: %s (type: %s)\n", cfg.Exchange, cfg.ExchangeType)

	return &RabbitMQSink{
		config:   cfg,
		deviceID: deviceID,
		conn:     conn,
		channel:  ch,
	}, nil
}

// Report publica el reporte de accidente con la routing key configurada
func (s *RabbitMQSink) Report(r AccidentReport) error {
	payload := map[string]interface{}{
		"timestamp":   r.ReceivedAt.Unix(),
		"device_id":   s.deviceID,
		"sensor_type": "SWARM_ACCIDENT",
		"data": map[string]interface{}{
			"origin_id":     r.OriginID,
			"has_position":  r.HasPosition,
			"latitude":      r.Latitude,
			"longitude":     r.Longitude,
			"emitted_at_ms": r.EmittedAtMS,
			"window_start":  r.WindowStart.Unix(),
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error serializando JSON: %w", err)
	}

	err = s.channel.Publish(
		s.config.Exchange,
		s.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jsonData,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("error publicando a %s: %w", s.config.RoutingKey, err)
	}
	return nil
}

// Close cierra el canal y la conexión
func (s *RabbitMQSink) Close() error {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("error cerrando conexión RabbitMQ: %w", err)
		}
	}
	fmt.Printf("🛑 [RabbitMQ] Sink cerrado (%s)\n", s.deviceID)
	return nil
}
