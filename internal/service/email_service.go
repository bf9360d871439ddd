package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"teyra/internal/models"
	"teyra/internal/progress"
)

// EmailService sends transactional mail via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates an email service. When fromEmail is empty
// the service is disabled and every send is a logged no-op.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// send delivers one email to one recipient
func (s *EmailService) send(to, subject, textBody string) error {
	if !s.enabled {
		log.Printf("Email service disabled, skipping send to %s (%s)", to, subject)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	_, err := s.client.SendEmail(context.TODO(), &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendWelcome greets a newly registered user
func (s *EmailService) SendWelcome(user *models.User) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Teyra! Your cactus starts out overwhelmed. Complete a few tasks and watch it cheer up.\n\nGet started: %s\n",
		user.Name, s.appBaseURL,
	)
	return s.send(user.Email, "Welcome to Teyra", body)
}

// SendDailySummary reports yesterday's numbers after a daily reset.
// before is the pre-reset record, so the counters still hold the
// finished day's values.
func (s *EmailService) SendDailySummary(user *models.User, before models.ProgressRecord) error {
	tier := progress.ResolveMilestone(before.AllTimeCompleted)
	body := fmt.Sprintf(
		"Hi %s,\n\nYesterday you completed %d task(s). Lifetime total: %d.\nYour cactus is feeling %s (%d/%d on the way to the next milestone).\n\nKeep it up: %s\n",
		user.Name,
		before.DailyCompletedTasks,
		before.AllTimeCompleted,
		before.CurrentMood,
		progress.GaugeValue(before.AllTimeCompleted, tier.MaxValue),
		tier.MaxValue,
		s.appBaseURL,
	)
	return s.send(user.Email, "Your Teyra daily summary", body)
}
