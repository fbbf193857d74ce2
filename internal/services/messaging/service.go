package messaging

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}

// GetMotivationalMessage returns a line to show while a session is running
func (s *service) GetMotivationalMessage(ctx context.Context, input *GetMotivationalMessageInput) (*GetMotivationalMessageOutput, error) {
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneEncouraging
	}

	var messages []string

	switch {
	case input.Strict:
		messages = []string{
			"Challenge mode: leave the app and the attempt is over. You've got this.",
			"Stay with it. The phone can wait; the challenge can't.",
			"Every minute here is a minute you chose. Keep choosing.",
			"Nothing on that screen is more important than finishing this.",
		}
	case input.Elapsed < 5*time.Minute:
		messages = []string{
			"The first few minutes are the hardest. Breathe.",
			"Put the phone face down and look around for a moment.",
			"Notifications can wait. You're doing something better.",
			"Good start. Let the urge to check pass by.",
		}
	case input.Elapsed < 30*time.Minute:
		messages = []string{
			"You're in the groove now. Keep going.",
			"Look at you, fully present.",
			"Whatever you're doing right now, it's yours alone.",
			"Your attention is coming back to you. Enjoy it.",
		}
	default:
		messages = []string{
			"Half an hour and counting. That's real focus.",
			"Long stretch unplugged. Your future self says thanks.",
			"This is what a calm mind feels like.",
			"You've made it further than most scrolls ever go.",
		}
	}

	return &GetMotivationalMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetSessionResultMessage returns the message for a stopped or failed session
func (s *service) GetSessionResultMessage(ctx context.Context, input *GetSessionResultMessageInput) (*GetSessionResultMessageOutput, error) {
	duration := FormatDuration(input.Duration)

	if input.Failed {
		messages := []string{
			fmt.Sprintf("The app lost focus after %s, so this challenge doesn't count. Try again when you're ready.", duration),
			fmt.Sprintf("%s in, then the phone won. No points this time, but the next attempt is right there.", duration),
			fmt.Sprintf("Challenge interrupted at %s. It happens. Reset and go again.", duration),
		}
		return &GetSessionResultMessageOutput{
			Title:   "Challenge Failed",
			Message: s.pick(messages),
		}, nil
	}

	if input.PointsEarned == 0 {
		messages := []string{
			fmt.Sprintf("%s unplugged. Stay a full minute to earn a point.", duration),
			fmt.Sprintf("Short one: %s. Points start at one full minute.", duration),
		}
		return &GetSessionResultMessageOutput{
			Title:   "Session Ended",
			Message: s.pick(messages),
		}, nil
	}

	messages := []string{
		fmt.Sprintf("%s away from the screen. +%d points.", duration, input.PointsEarned),
		fmt.Sprintf("Nice work! %s of focus earned you %d points.", duration, input.PointsEarned),
		fmt.Sprintf("%s reclaimed. That's %d points in the bank.", duration, input.PointsEarned),
	}

	message := s.pick(messages)
	if input.Streak > 1 {
		message = fmt.Sprintf("%s %d active days this week.", message, input.Streak)
	}

	return &GetSessionResultMessageOutput{
		Title:   "Session Complete",
		Message: message,
	}, nil
}

// GetChallengeCompletedMessage returns the message for a completed challenge
func (s *service) GetChallengeCompletedMessage(ctx context.Context, input *GetChallengeCompletedMessageInput) (*GetChallengeCompletedMessageOutput, error) {
	messages := []string{
		fmt.Sprintf("You finished \"%s\"! +%d bonus points.", input.Title, input.Bonus),
		fmt.Sprintf("\"%s\" complete. That's %d bonus points well earned.", input.Title, input.Bonus),
		fmt.Sprintf("Challenge done: \"%s\". Enjoy your %d bonus points.", input.Title, input.Bonus),
	}

	message := s.pick(messages)

	if input.IsPublic {
		switch {
		case input.FirstCompletion && input.UsersCompletedCount > 1:
			message = fmt.Sprintf("%s You're one of %d people who completed it.", message, input.UsersCompletedCount)
		case input.FirstCompletion:
			message = fmt.Sprintf("%s You're the first to complete it!", message)
		default:
			message = fmt.Sprintf("%s You've completed this one before, so the community count stays put.", message)
		}
	}

	return &GetChallengeCompletedMessageOutput{
		Title:   "Challenge Complete",
		Message: message,
	}, nil
}

// GetStreakMessage returns a comment on the weekly streak
func (s *service) GetStreakMessage(ctx context.Context, input *GetStreakMessageInput) (*GetStreakMessageOutput, error) {
	var messages []string

	switch {
	case input.Streak <= 0:
		messages = []string{
			"New week, clean slate. One session gets the streak going.",
			"No active days yet this week. Today's a good day to start.",
		}
	case input.Streak < 4:
		messages = []string{
			fmt.Sprintf("%d active days this week. Keep it rolling.", input.Streak),
			fmt.Sprintf("%d days this week so far. Nice rhythm.", input.Streak),
		}
	case input.Streak < 7:
		messages = []string{
			fmt.Sprintf("%d active days this week! You're building a real habit.", input.Streak),
			fmt.Sprintf("%d days unplugged this week. Impressive.", input.Streak),
		}
	default:
		messages = []string{
			"Every single day this week. Perfect streak!",
			"Seven for seven. That's a perfect week.",
		}
	}

	return &GetStreakMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneCalm
	}

	var messages []string

	switch input.ErrorType {
	case ErrorTypeSessionActive:
		messages = []string{
			"You already have a session running. Stop it before starting another.",
			"One session at a time. The current one is still going.",
		}
	case ErrorTypeNoSession:
		messages = []string{
			"There's no session running right now.",
			"Nothing to stop. Start a session first.",
		}
	case ErrorTypeNotFound:
		messages = []string{
			"That challenge doesn't exist anymore.",
			"Couldn't find that challenge. It may have been deleted.",
		}
	case ErrorTypeInvalidInput:
		messages = []string{
			"Challenges need a title and a duration of at least one minute.",
		}
	case ErrorTypePremium:
		messages = []string{
			"Sharing challenges with the community is a premium feature.",
			"Upgrade to premium to share your challenges publicly.",
		}
	case ErrorTypeReauthRequired:
		messages = []string{
			"For your safety, sign in again before deleting your account.",
		}
	default:
		messages = []string{
			"Something went wrong. Please try again in a moment.",
			"That didn't work. Give it another try shortly.",
		}
	}

	return &GetErrorMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}
