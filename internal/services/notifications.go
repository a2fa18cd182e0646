package services

import (
	"context"
	"log"
	"sync"
	"time"

	"codejourney-backend/internal/tracker"
)

const (
	reminderPollInterval = 1 * time.Hour
	reminderEarliestHour = 18
)

type streakSource interface {
	StreakStatus(ctx context.Context) (streak int, loggedToday bool, err error)
}

type streakMailer interface {
	SendStreakReminderEmail(to string, streak int) error
}

// StreakReminderScheduler mails the configured recipient in the evening when a
// running streak would break because nothing has been logged today.
type StreakReminderScheduler struct {
	streaks   streakSource
	email     streakMailer
	events    *Events
	recipient string
	now       func() time.Time
	stopChan  chan struct{}

	mu       sync.Mutex
	lastSent string
}

func NewStreakReminderScheduler(streaks streakSource, email streakMailer, events *Events, recipient string, loc *time.Location) *StreakReminderScheduler {
	return &StreakReminderScheduler{
		streaks:   streaks,
		email:     email,
		events:    events,
		recipient: recipient,
		now:       func() time.Time { return time.Now().In(loc) },
		stopChan:  make(chan struct{}),
	}
}

func (s *StreakReminderScheduler) Start() {
	if s.recipient == "" || s.streaks == nil || s.email == nil {
		return
	}

	go s.loop()
	log.Printf("Streak reminder scheduler started for %s", s.recipient)
}

func (s *StreakReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *StreakReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.runOnce(context.Background())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runOnce(context.Background())
		}
	}
}

func (s *StreakReminderScheduler) runOnce(ctx context.Context) bool {
	now := s.now()
	today := tracker.FormatDate(now)

	s.mu.Lock()
	lastSent := s.lastSent
	s.mu.Unlock()
	if lastSent == "" {
		lastSent = s.events.ReminderSentOn(ctx)
	}

	if !inReminderWindow(now, lastSent) {
		return false
	}

	streak, loggedToday, err := s.streaks.StreakStatus(ctx)
	if err != nil {
		log.Printf("streak reminder: failed to load streak: %v", err)
		return false
	}
	if !shouldRemind(streak, loggedToday) {
		return false
	}

	if err := s.email.SendStreakReminderEmail(s.recipient, streak); err != nil {
		log.Printf("streak reminder: failed to send to %s: %v", s.recipient, err)
		return false
	}

	s.mu.Lock()
	s.lastSent = today
	s.mu.Unlock()
	s.events.MarkReminderSent(ctx, today)
	return true
}

// inReminderWindow is true from 18:00 local time until midnight, once per day.
func inReminderWindow(now time.Time, lastSentDay string) bool {
	if now.Hour() < reminderEarliestHour {
		return false
	}
	return lastSentDay != tracker.FormatDate(now)
}

func shouldRemind(streak int, loggedToday bool) bool {
	return streak > 0 && !loggedToday
}
