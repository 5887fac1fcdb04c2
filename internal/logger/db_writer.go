package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-approvals/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	ActorID   string
	Caller    string // Function name
}

// LogSink persists a single log document
type LogSink interface {
	InsertLog(ctx context.Context, log common_models.Log) error
}

type mongoLogSink struct {
	collection *mongo.Collection
}

// NewMongoLogSink writes logs into the "logs" collection
func NewMongoLogSink(db *mongo.Database) LogSink {
	return &mongoLogSink{collection: db.Collection("logs")}
}

func (s *mongoLogSink) InsertLog(ctx context.Context, log common_models.Log) error {
	_, err := s.collection.InsertOne(ctx, log)
	return err
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	appId   string

	mu       sync.RWMutex // guards closed against sends on a closed logChan
	closed   bool
	finished chan struct{}
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(sink LogSink, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		sink:     sink,
		logChan:  make(chan LogEntry, buffer),
		appId:    appId,
		finished: make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap core
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop the log rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits until the worker has written the
// queued ones or ctx ends.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.finished)

	for entry := range w.logChan {
		record := common_models.Log{
			AppId:        w.appId,
			Message:      entry.Message,
			Caller:       entry.Caller,
			ActorID:      entry.ActorID,
			IpAddress:    entry.IpAddress,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Errors are ignored to keep the app running
		_ = w.sink.InsertLog(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
