package notify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/mstgnz/paybridge/infra/config"
	"github.com/mstgnz/paybridge/infra/logger"
	gomail "gopkg.in/mail.v2"
)

// snsSubjectLimit is the longest subject SNS accepts
const snsSubjectLimit = 100

// NewSender builds the sender selected by NOTIFY_TRANSPORT
func NewSender(ctx context.Context, cfg config.NotifyConfig) (Sender, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		return NewSMTPSender(cfg), nil
	case config.TransportSNS:
		return NewSNSSender(ctx, cfg.SNSTopicARN)
	case config.TransportLog, "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("notify: unknown transport %q", cfg.Transport)
	}
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender mails the owner
type SMTPSender struct {
	from   string
	dialer mailDialer
}

func NewSMTPSender(cfg config.NotifyConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.SMTPFrom,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

func (s *SMTPSender) Transport() string {
	return config.TransportSMTP
}

func (s *SMTPSender) Send(_ context.Context, msg *Message) error {
	if msg.To == "" {
		return fmt.Errorf("no recipient configured")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	return s.dialer.DialAndSend(message)
}

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes the notification to a topic the owner is subscribed to
type SNSSender struct {
	client   snsPublisher
	topicARN string
}

// NewSNSSender loads credentials from the default AWS chain
func NewSNSSender(ctx context.Context, topicARN string) (*SNSSender, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("notify: SNS_TOPIC_ARN not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SNSSender{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

func (s *SNSSender) Transport() string {
	return config.TransportSNS
}

func (s *SNSSender) Send(ctx context.Context, msg *Message) error {
	subject := truncateSubject(msg.Subject, snsSubjectLimit)

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(msg.Body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String("order.paid"),
			},
		},
	})
	return err
}

// LogSender writes notifications to the process log, for development
type LogSender struct{}

func (LogSender) Transport() string {
	return config.TransportLog
}

func (LogSender) Send(_ context.Context, msg *Message) error {
	logger.Info("Owner notification", logger.LogContext{
		Fields: map[string]any{
			"to":      msg.To,
			"subject": msg.Subject,
			"body":    msg.Body,
		},
	})
	return nil
}

// truncateSubject cuts s to at most limit bytes without splitting a rune
func truncateSubject(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i, r := range s {
		if i+utf8.RuneLen(r) > limit {
			break
		}
		cut = i + utf8.RuneLen(r)
	}
	return s[:cut]
}
