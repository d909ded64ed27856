package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// matchPlayedPayload is the JSON body written to the topic.
type matchPlayedPayload struct {
	EventID    string    `json:"event_id"`
	MatchID    int       `json:"match_id"`
	Matchday   int       `json:"matchday"`
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Outcome    string    `json:"outcome"`
	PlayedAt   time.Time `json:"played_at"`
	Correction bool      `json:"correction"`
}

// Publisher writes MatchPlayed events to a Kafka topic. MatchPlayed only
// queues the event; Run drains the queue until its context is cancelled.
type Publisher struct {
	w     messageWriter
	queue chan league.MatchPlayed
	log   *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newPublisher(w, 1024, logger)
}

func newPublisher(w messageWriter, size int, logger *slog.Logger) *Publisher {
	return &Publisher{
		w:     w,
		queue: make(chan league.MatchPlayed, size),
		log:   logger.With("component", "kafka-publisher"),
	}
}

// MatchPlayed never blocks the caller; a full queue drops the event.
func (p *Publisher) MatchPlayed(ev league.MatchPlayed) {
	select {
	case p.queue <- ev:
	default:
		p.log.Warn("event queue full, dropping", "event_id", ev.EventID, "match_id", ev.MatchID)
	}
}

// Run publishes queued events until ctx is done, then flushes what is left
// with a short grace period and closes the writer.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-p.queue:
			p.publish(ctx, ev)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case ev := <-p.queue:
					p.publish(flushCtx, ev)
				default:
					return p.w.Close()
				}
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev league.MatchPlayed) {
	msg, err := encode(ev)
	if err != nil {
		p.log.Error("encode event", "event_id", ev.EventID, "error", err)
		return
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.log.Error("publish event", "event_id", ev.EventID, "match_id", ev.MatchID, "error", err)
		return
	}
	p.log.Debug("event published", "event_id", ev.EventID, "match_id", ev.MatchID)
}

// encode keys the message by match id so a match's corrections stay ordered
// on one partition.
func encode(ev league.MatchPlayed) (kafka.Message, error) {
	body, err := json.Marshal(matchPlayedPayload{
		EventID:    ev.EventID,
		MatchID:    ev.MatchID,
		Matchday:   ev.Matchday,
		HomeTeamID: int(ev.Home),
		AwayTeamID: int(ev.Away),
		HomeScore:  ev.HomeScore,
		AwayScore:  ev.AwayScore,
		Outcome:    league.Score{Home: ev.HomeScore, Away: ev.AwayScore}.Outcome().String(),
		PlayedAt:   ev.PlayedAt.UTC(),
		Correction: ev.Correction,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal match %d: %w", ev.MatchID, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.Itoa(ev.MatchID)),
		Value: body,
		Time:  ev.PlayedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.EventID)},
			{Key: "type", Value: []byte("match_played")},
		},
	}, nil
}
