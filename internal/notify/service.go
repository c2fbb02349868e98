package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	QueueKey       = "notifications"
	FailedQueueKey = "notifications:failed"

	maxTries    = 3
	popTimeout  = 2 * time.Second
	whenLayout  = "Jan 2, 2006 at 3:04 PM"
	signature   = "- FitClub Team"
	defaultWait = 5 * time.Second

	// queueTimeout bounds the lookup and push done on the request path.
	queueTimeout = 2 * time.Second
)

const (
	TypeClassRegistration = "class_registration"
	TypePTBooking         = "pt_booking"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender delivers a single message.
type Sender interface {
	Send(job Job) error
}

// Lookup resolves the people and places behind a booking id.
type Lookup interface {
	ClassRegistration(ctx context.Context, memberID, classSessionID int) (*Details, error)
	PTBooking(ctx context.Context, memberID, ptSessionID int) (*Details, error)
}

type Details struct {
	MemberName  string    `db:"member_name"`
	MemberEmail string    `db:"member_email"`
	Title       string    `db:"title"`
	TrainerName string    `db:"trainer_name"`
	RoomName    string    `db:"room_name"`
	StartTime   time.Time `db:"start_time"`
}

type Service struct {
	redis      *redis.Client
	sender     Sender
	lookup     Lookup
	retryDelay time.Duration
	now        func() time.Time
}

func New(rdb *redis.Client, sender Sender, lookup Lookup) *Service {
	return &Service{
		redis:      rdb,
		sender:     sender,
		lookup:     lookup,
		retryDelay: defaultWait,
		now:        time.Now,
	}
}

func (s *Service) Enqueue(ctx context.Context, job Job) error {
	job.Tries = 0
	job.Created = s.now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("notify: marshal job: %w", err)
	}

	if err := s.redis.LPush(ctx, QueueKey, data).Err(); err != nil {
		metrics.RecordNotification(job.Type, "queue_failed")
		return fmt.Errorf("notify: queue %s: %w", job.Type, err)
	}

	logger.Info("Notification queued", "type", job.Type, "to", job.To)
	return nil
}

// ClassRegistered queues a confirmation. Failures are logged and swallowed.
func (s *Service) ClassRegistered(ctx context.Context, memberID, classSessionID int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queueTimeout)
	defer cancel()

	d, err := s.lookup.ClassRegistration(ctx, memberID, classSessionID)
	if err != nil {
		logger.Error("Failed to resolve class registration", "member_id", memberID,
			"class_session_id", classSessionID, "error", err.Error())
		return
	}

	s.enqueueQuietly(ctx, classJob(d))
}

// PTSessionBooked queues a confirmation. Failures are logged and swallowed.
func (s *Service) PTSessionBooked(ctx context.Context, memberID, ptSessionID int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queueTimeout)
	defer cancel()

	d, err := s.lookup.PTBooking(ctx, memberID, ptSessionID)
	if err != nil {
		logger.Error("Failed to resolve PT booking", "member_id", memberID,
			"pt_session_id", ptSessionID, "error", err.Error())
		return
	}

	s.enqueueQuietly(ctx, ptJob(d))
}

func classJob(d *Details) Job {
	body := fmt.Sprintf(`Hi %s,

You are registered for %s.

Trainer: %s
Room: %s
Time: %s

See you at the club!

%s`, d.MemberName, d.Title, d.TrainerName, d.RoomName, d.StartTime.Format(whenLayout), signature)

	return Job{
		Type:    TypeClassRegistration,
		To:      d.MemberEmail,
		Name:    d.MemberName,
		Subject: "Class Registration Confirmed - " + d.Title,
		Body:    body,
	}
}

func ptJob(d *Details) Job {
	body := fmt.Sprintf(`Hi %s,

Your personal training session is booked.

Trainer: %s
Room: %s
Time: %s

%s`, d.MemberName, d.TrainerName, d.RoomName, d.StartTime.Format(whenLayout), signature)

	return Job{
		Type:    TypePTBooking,
		To:      d.MemberEmail,
		Name:    d.MemberName,
		Subject: "PT Session Booked with " + d.TrainerName,
		Body:    body,
	}
}

func (s *Service) enqueueQuietly(ctx context.Context, job Job) {
	if err := s.Enqueue(ctx, job); err != nil {
		logger.Error("Failed to queue notification", "type", job.Type, "to", job.To, "error", err.Error())
	}
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("Notification queue unavailable", "error", err.Error())
			sleep(ctx, popTimeout)
		}
		return
	}
	defer s.refreshQueueLength(ctx)

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("Bad notification payload", "error", err.Error())
		return
	}

	job.Tries++
	if err := s.sender.Send(job); err != nil {
		logger.Error("Failed to send notification", "to", job.To, "attempt", job.Tries, "error", err.Error())

		if job.Tries < maxTries {
			metrics.RecordNotification(job.Type, "retry")
			sleep(ctx, s.retryDelay)
			data, _ := json.Marshal(job)
			if err := s.redis.LPush(context.Background(), QueueKey, data).Err(); err != nil {
				metrics.RecordNotification(job.Type, "lost")
				logger.Error("Failed to requeue notification", "error", err.Error(), "type", job.Type, "to", job.To, "tries", job.Tries)
			}
			return
		}

		metrics.RecordNotification(job.Type, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Info("Notification sent", "type", job.Type, "to", job.To)
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	if pushErr := s.redis.LPush(context.Background(), FailedQueueKey, data).Err(); pushErr != nil {
		metrics.RecordNotification(job.Type, "lost")
		logger.Error("Failed to save failed notification", "error", pushErr.Error(), "cause", err.Error(), "type", job.Type, "to", job.To)
		return
	}
	logger.Error("Notification moved to failed queue", "to", job.To, "tries", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, QueueKey).Result()
	return length
}

func (s *Service) refreshQueueLength(ctx context.Context) {
	metrics.SetNotificationQueueLength(s.QueueLength(ctx))
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
