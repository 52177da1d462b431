package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/closerops/salesboard/internal/schedule"
	"github.com/closerops/salesboard/pkg/logging"
)

const (
	appointmentsKey     = "salesboard:appointments"
	appointmentsSeqKey  = "salesboard:appointments:seq"
	appointmentsChannel = "salesboard:appointments:events"
	rosterKey           = "salesboard:roster"
	rosterChannel       = "salesboard:roster:events"
)

// RedisRepository stores each appointment as a JSON document in a hash and
// publishes a monotonic sequence number on every write so subscribed sessions
// can reload the collection.
type RedisRepository struct {
	redis  *redis.Client
	tracer trace.Tracer
	logger *logging.Logger
}

// NewRedisRepository creates a repository backed by the given client.
func NewRedisRepository(client *redis.Client, logger *logging.Logger) *RedisRepository {
	if client == nil {
		panic("appointments: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisRepository{
		redis:  client,
		tracer: otel.Tracer("salesboard.internal.appointments"),
		logger: logger,
	}
}

// Create stores a new appointment and returns its assigned id.
func (r *RedisRepository) Create(ctx context.Context, appt schedule.Appointment) (string, error) {
	ctx, span := r.tracer.Start(ctx, "appointments.create")
	defer span.End()

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = schedule.StatusBooked
	}
	data, err := json.Marshal(appt)
	if err != nil {
		return "", fmt.Errorf("appointments: marshal appointment: %w", err)
	}
	if err := r.redis.HSet(ctx, appointmentsKey, appt.ID, data).Err(); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("appointments: create %s: %w", appt.ID, err)
	}
	r.publishChange(ctx)
	return appt.ID, nil
}

// Update merges partial fields into a stored appointment.
func (r *RedisRepository) Update(ctx context.Context, id string, upd Update) error {
	ctx, span := r.tracer.Start(ctx, "appointments.update")
	defer span.End()

	raw, err := r.redis.HGet(ctx, appointmentsKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		span.RecordError(err)
		return fmt.Errorf("appointments: load %s: %w", id, err)
	}
	var appt schedule.Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		return fmt.Errorf("appointments: unmarshal %s: %w", id, err)
	}
	upd.Apply(&appt)
	appt.ID = id
	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("appointments: marshal %s: %w", id, err)
	}
	if err := r.redis.HSet(ctx, appointmentsKey, id, data).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("appointments: update %s: %w", id, err)
	}
	r.publishChange(ctx)
	return nil
}

// Delete removes an appointment.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "appointments.delete")
	defer span.End()

	removed, err := r.redis.HDel(ctx, appointmentsKey, id).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("appointments: delete %s: %w", id, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	r.publishChange(ctx)
	return nil
}

// Snapshot loads the full appointment collection with its current sequence.
// Documents that fail to decode are skipped with a warning rather than
// failing the whole read.
func (r *RedisRepository) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "appointments.snapshot")
	defer span.End()

	seq, err := r.currentSeq(ctx)
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, err
	}
	raw, err := r.redis.HGetAll(ctx, appointmentsKey).Result()
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("appointments: load collection: %w", err)
	}

	appts := make([]schedule.Appointment, 0, len(raw))
	for id, doc := range raw {
		var appt schedule.Appointment
		if err := json.Unmarshal([]byte(doc), &appt); err != nil {
			r.logger.Warn("skipping undecodable appointment document", "id", id, "error", err)
			continue
		}
		if appt.ID == "" {
			appt.ID = id
		}
		appts = append(appts, appt)
	}
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		if appts[i].Time != appts[j].Time {
			return appts[i].Time < appts[j].Time
		}
		if appts[i].SalesPerson != appts[j].SalesPerson {
			return appts[i].SalesPerson < appts[j].SalesPerson
		}
		return appts[i].ID < appts[j].ID
	})
	return Snapshot{Seq: seq, Appointments: appts}, nil
}

// Subscribe reloads and delivers the collection after every published change.
// Reload failures keep the subscription alive; the consumer retains its last
// good snapshot.
func (r *RedisRepository) Subscribe(ctx context.Context, fn func(Snapshot)) (func(), error) {
	pubsub := r.redis.Subscribe(ctx, appointmentsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("appointments: subscribe: %w", err)
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = msg
				snap, err := r.Snapshot(ctx)
				if err != nil {
					r.logger.Warn("appointment snapshot reload failed", "error", err)
					continue
				}
				fn(snap)
			}
		}
	}()
	return stop, nil
}

// SaveRoster persists the full staff roster document.
func (r *RedisRepository) SaveRoster(ctx context.Context, members []schedule.StaffMember) error {
	ctx, span := r.tracer.Start(ctx, "appointments.save_roster")
	defer span.End()

	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("appointments: marshal roster: %w", err)
	}
	if err := r.redis.Set(ctx, rosterKey, data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("appointments: save roster: %w", err)
	}
	if err := r.redis.Publish(ctx, rosterChannel, "updated").Err(); err != nil {
		r.logger.Warn("roster change publish failed", "error", err)
	}
	return nil
}

// LoadRoster returns the persisted roster, or nil when none exists yet.
func (r *RedisRepository) LoadRoster(ctx context.Context) ([]schedule.StaffMember, error) {
	ctx, span := r.tracer.Start(ctx, "appointments.load_roster")
	defer span.End()

	raw, err := r.redis.Get(ctx, rosterKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: load roster: %w", err)
	}
	var members []schedule.StaffMember
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("appointments: unmarshal roster: %w", err)
	}
	return members, nil
}

// SubscribeRoster delivers the roster document after every roster save.
func (r *RedisRepository) SubscribeRoster(ctx context.Context, fn func([]schedule.StaffMember)) (func(), error) {
	pubsub := r.redis.Subscribe(ctx, rosterChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("appointments: subscribe roster: %w", err)
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				members, err := r.LoadRoster(ctx)
				if err != nil {
					r.logger.Warn("roster reload failed", "error", err)
					continue
				}
				if members != nil {
					fn(members)
				}
			}
		}
	}()
	return stop, nil
}

func (r *RedisRepository) publishChange(ctx context.Context) {
	seq, err := r.redis.Incr(ctx, appointmentsSeqKey).Result()
	if err != nil {
		r.logger.Warn("appointment sequence bump failed", "error", err)
		return
	}
	if err := r.redis.Publish(ctx, appointmentsChannel, strconv.FormatInt(seq, 10)).Err(); err != nil {
		r.logger.Warn("appointment change publish failed", "seq", seq, "error", err)
	}
}

func (r *RedisRepository) currentSeq(ctx context.Context) (uint64, error) {
	raw, err := r.redis.Get(ctx, appointmentsSeqKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("appointments: load sequence: %w", err)
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("appointments: parse sequence %q: %w", raw, err)
	}
	return seq, nil
}
