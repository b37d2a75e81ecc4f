package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// EnsureTopic создает топик, если его еще нет. Ошибка не фатальна для сервиса:
// при auto.create.topics.enable брокер создаст топик сам.
func EnsureTopic(ctx context.Context, brokers []string, topic string, log *logger.Logger) error {
	if len(brokers) == 0 || strings.TrimSpace(brokers[0]) == "" {
		return errors.New("kafka broker address is empty")
	}
	broker := strings.TrimSpace(brokers[0])
	if _, _, err := net.SplitHostPort(broker); err != nil {
		return fmt.Errorf("invalid broker address %s: %w", broker, err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := kafkaGo.DialContext(dialCtx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("kafka connection failed: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(topic)
	if err == nil && len(partitions) > 0 {
		log.Debugw("Kafka topic already exists", "topic", topic)
		return nil
	}

	// топики создаются только через контроллер
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka controller lookup failed: %w", err)
	}
	ctrlConn, err := kafkaGo.DialContext(dialCtx, "tcp", net.JoinHostPort(controller.Host, fmt.Sprint(controller.Port)))
	if err != nil {
		return fmt.Errorf("kafka controller connection failed: %w", err)
	}
	defer ctrlConn.Close()

	err = ctrlConn.CreateTopics(kafkaGo.TopicConfig{Topic: topic, NumPartitions: 3, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafkaGo.TopicAlreadyExists) {
		return fmt.Errorf("kafka create topic failed: %w", err)
	}

	log.Infow("Kafka topic ready", "topic", topic)
	return nil
}
