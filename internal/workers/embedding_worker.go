package workers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dislogroup/salesflow/internal/cache"
	"github.com/dislogroup/salesflow/internal/providers/nlp"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
)

const DefaultStream = "products:embed"

// Queue pushes product ids onto the embedding stream. Catalog writes enqueue
// instead of embedding inline so the HTTP path never waits on the NLP service.
type Queue struct {
	redis  *redis.Client
	stream string
}

func NewQueue(rdb *redis.Client, stream string) *Queue {
	if stream == "" {
		stream = DefaultStream
	}
	return &Queue{redis: rdb, stream: stream}
}

func (q *Queue) EnqueueProduct(ctx context.Context, productID int64) error {
	return q.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{"produit_id": strconv.FormatInt(productID, 10)},
	}).Err()
}

// EmbeddingWorkerPool consumes the embedding stream, computes the vector for
// each product and persists it on the row. The redis cache entry is refreshed
// so searches in flight pick up the new vector immediately.
type EmbeddingWorkerPool struct {
	Redis      *redis.Client
	Products   pgrepo.ProductRepo
	Embedder   nlp.Embedder
	Cache      cache.Cache
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *EmbeddingWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Products == nil || p.Embedder == nil {
		return errors.New("EmbeddingWorkerPool missing dependency: Redis/Products/Embedder must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = "embed-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *EmbeddingWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *EmbeddingWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	raw, _ := msg.Values["produit_id"].(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"produit_id": id,
	})

	product, err := p.Products.GetByID(ctx, id)
	if err != nil {
		// deleted before the worker got to it; nothing to do
		log.WithError(err).Debug("produit introuvable, message ignore")
		return
	}

	vec, err := p.Embedder.Embed(ctx, product.EmbeddingText())
	if err != nil {
		log.WithError(err).Warn("embedding produit echoue")
		return
	}

	if err := p.Products.UpdateEmbedding(ctx, id, vec); err != nil {
		log.WithError(err).Error("persistance de l'embedding echouee")
		return
	}

	if p.Cache != nil {
		key := fmt.Sprintf("emb:produit:%d", id)
		_ = p.Cache.SetJSON(ctx, key, vec, 24*time.Hour)
	}

	log.Info("embedding produit mis a jour")
}
