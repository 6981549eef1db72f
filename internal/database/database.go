package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const defaultConnectTimeout = 10 * time.Second

var ErrClosed = errors.New("database: store closed")

// Store mantiene un único cliente de MongoDB compartido por todos los requests.
// La conexión se abre en el primer uso; si falla se reintenta en la siguiente llamada.
type Store struct {
	uri            string
	dbName         string
	connectTimeout time.Duration
	log            *zap.Logger

	mu     sync.Mutex
	client *mongo.Client
	closed bool
}

func New(uri, dbName string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		uri:            uri,
		dbName:         dbName,
		connectTimeout: defaultConnectTimeout,
		log:            log,
	}
}

// Connect abre un cliente y verifica la conexión con un ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// Client retorna el cliente compartido, conectando si aún no existe
func (s *Store) Client(ctx context.Context) (*mongo.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.client != nil {
		return s.client, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	client, err := Connect(ctx, s.uri)
	if err != nil {
		s.log.Error("mongo connection failed", zap.Error(err))
		return nil, err
	}

	s.log.Info("mongo connected", zap.String("database", s.dbName))
	s.client = client
	return client, nil
}

// Collection retorna una colección de la base configurada
func (s *Store) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.dbName).Collection(name), nil
}

// Ping verifica que la base responda
func (s *Store) Ping(ctx context.Context) error {
	client, err := s.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close desconecta el cliente. Las llamadas posteriores fallan con ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}
