package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/mstgnz/paybridge/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/mail.v2"
)

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

type fakePublisher struct {
	input *sns.PublishInput
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(context.Background(), config.NotifyConfig{Transport: config.TransportLog})
	require.NoError(t, err)
	assert.Equal(t, config.TransportLog, s.Transport())

	s, err = NewSender(context.Background(), config.NotifyConfig{Transport: config.TransportSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587})
	require.NoError(t, err)
	assert.Equal(t, config.TransportSMTP, s.Transport())

	_, err = NewSender(context.Background(), config.NotifyConfig{Transport: config.TransportSNS})
	assert.ErrorContains(t, err, "SNS_TOPIC_ARN")

	_, err = NewSender(context.Background(), config.NotifyConfig{Transport: "pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}

func TestSMTPSender_Send(t *testing.T) {
	dialer := &fakeDialer{}
	s := &SMTPSender{from: "shop@example.com", dialer: dialer}

	err := s.Send(context.Background(), &Message{To: "owner@example.com", Subject: "New order", Body: "Total: 10.00"})
	require.NoError(t, err)
	require.Len(t, dialer.messages, 1)

	msg := dialer.messages[0]
	assert.Equal(t, []string{"shop@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New order"}, msg.GetHeader("Subject"))
}

func TestSMTPSender_Errors(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("dial tcp: i/o timeout")}
	s := &SMTPSender{from: "shop@example.com", dialer: dialer}

	assert.ErrorContains(t, s.Send(context.Background(), &Message{To: "owner@example.com"}), "i/o timeout")
	assert.ErrorContains(t, s.Send(context.Background(), &Message{}), "no recipient")
	assert.Len(t, dialer.messages, 1)
}

func TestSNSSender_Send(t *testing.T) {
	publisher := &fakePublisher{}
	s := &SNSSender{client: publisher, topicARN: "arn:aws:sns:eu-central-1:123456789012:orders"}

	err := s.Send(context.Background(), &Message{Subject: strings.Repeat("s", 150), Body: "Total: 10.00"})
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:sns:eu-central-1:123456789012:orders", aws.ToString(publisher.input.TopicArn))
	assert.Len(t, aws.ToString(publisher.input.Subject), snsSubjectLimit)
	assert.Equal(t, "Total: 10.00", aws.ToString(publisher.input.Message))
	assert.Equal(t, "order.paid", aws.ToString(publisher.input.MessageAttributes["event_type"].StringValue))
	assert.Equal(t, config.TransportSNS, s.Transport())

	publisher.err = errors.New("AuthorizationError")
	assert.ErrorContains(t, s.Send(context.Background(), &Message{Body: "x"}), "AuthorizationError")
}

func TestTruncateSubject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short", input: "New paid order", limit: 100, want: "New paid order"},
		{name: "ascii", input: "abcdef", limit: 4, want: "abcd"},
		{name: "rune_on_boundary", input: "abcé", limit: 5, want: "abcé"},
		{name: "rune_across_boundary", input: "abcé", limit: 4, want: "abc"},
		{name: "cjk", input: "店店店", limit: 7, want: "店店"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateSubject(tt.input, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSNSSender_SendMultibyteSubject(t *testing.T) {
	publisher := &fakePublisher{}
	s := &SNSSender{client: publisher, topicARN: "arn:aws:sns:eu-central-1:123456789012:orders"}

	subject := "[" + strings.Repeat("ß", 60) + "] New paid order"
	require.NoError(t, s.Send(context.Background(), &Message{Subject: subject, Body: "x"}))

	got := aws.ToString(publisher.input.Subject)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), snsSubjectLimit)
	assert.True(t, strings.HasPrefix(subject, got))
}

func TestLogSender_Send(t *testing.T) {
	logs := observeLogs(t)

	err := LogSender{}.Send(context.Background(), &Message{To: "owner@example.com", Subject: "New order", Body: "Total: 10.00"})
	require.NoError(t, err)

	entries := logs.FilterMessage("Owner notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "New order", entries[0].ContextMap()["subject"])
}
