package bootstrap

import (
	"context"

	"github.com/dulcecostawork-hub/minifood-api/configs"
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/cache"
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/catalog"
	apihttp "github.com/dulcecostawork-hub/minifood-api/internal/adapter/http"
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/queue"
	"github.com/dulcecostawork-hub/minifood-api/internal/idgen"
	"github.com/dulcecostawork-hub/minifood-api/internal/logging"
	"github.com/dulcecostawork-hub/minifood-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	log := logging.New("bootstrap")

	store := catalog.NewStore()
	ids := idgen.NewClock()

	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Idempotency store: Redis when configured, in-memory otherwise.
	var idem usecase.IdempotencyStore = cache.NewMemoryIdempotencyStore(cfg.Checkout.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		idem = cache.NewRedisIdempotencyStore(rdb, cfg.Checkout.IdempotencyTTL)
		log.Info("idempotency store: redis", "addr", cfg.Redis.Addr)
	}

	// Order events: RabbitMQ when configured, no-op otherwise.
	var events usecase.OrderEvents = queue.NoopPublisher{}
	if cfg.Rabbit.URL != "" {
		conn, err := amqp091.Dial(cfg.Rabbit.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			cleanup()
			return nil, nil, err
		}
		producer, err := queue.NewRabbitProducer(ch)
		if err != nil {
			_ = conn.Close()
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = conn.Close() })
		events = producer
		log.Info("order events: rabbitmq")
	}

	cartUC := usecase.NewCartCheck(store)
	checkoutUC := usecase.NewCheckout(store, ids, idem, events, cfg.Checkout.MinOrder, logging.New("checkout"))
	h := apihttp.NewMealHandler(store, cartUC, checkoutUC)
	router := apihttp.NewRouter(h)

	return &App{Router: router}, cleanup, nil
}
