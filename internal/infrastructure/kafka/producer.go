package kafka

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// Producer публикует события жизненного цикла каталога в Kafka.
type Producer struct {
	writer *kafka.Writer
	cfg    *config.KafkaCfg
	log    logger.Logger
}

// catalogRefreshedEvent — тело события завершения прогона по источнику.
type catalogRefreshedEvent struct {
	EventID      string    `json:"event_id"`
	Source       string    `json:"source"`
	ItemsWritten int       `json:"items_written"`
	Errors       int       `json:"errors"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewProducer(cfg *config.KafkaCfg, log logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		writer: writer,
		cfg:    cfg,
		log:    log,
	}
}

// EnsureTopic создаёт топик с настройками из конфигурации, если его ещё нет.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	controllerConn, err := kafka.DialContext(ctx, p.cfg.NetworkMode,
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// CatalogRefreshed публикует событие обновления каталога.
// Ключ сообщения — имя источника, чтобы события одного источника
// попадали в одну партицию и сохраняли порядок.
func (p *Producer) CatalogRefreshed(ctx context.Context, req *usecase.CatalogRefreshedReq) error {
	event := catalogRefreshedEvent{
		EventID:      uuid.NewString(),
		Source:       req.Source,
		ItemsWritten: req.ItemsWritten,
		Errors:       req.Errors,
		Timestamp:    time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.Source),
		Value: value,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	p.log.Debugf("published catalog.refreshed for %s (%d items)", req.Source, req.ItemsWritten)

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
