package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// ArticleEventWorker drains the audit queue and persists each article
// event. Deliveries are acked only after the row is written; decode and
// persist failures are nacked without requeue.
type ArticleEventWorker struct {
	conn      *amqp.Connection
	repo      *repository.ArticleEventRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewArticleEventWorker(conn *amqp.Connection, repo *repository.ArticleEventRepository, queueName string) *ArticleEventWorker {
	return &ArticleEventWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ArticleEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var event model.ArticleEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					log.Printf("worker decode article event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&event); err != nil {
					log.Printf("worker persist article event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ArticleEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
