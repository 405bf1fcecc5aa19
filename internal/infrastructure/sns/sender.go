package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/infrastructure/awsinfra"
)

// Attribute names a topic subscriber reads to build the outgoing email.
const (
	AttrTo   = "to"
	AttrFrom = "from"
)

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier hands emails to an SNS topic; a mail worker subscribed to the
// topic performs the delivery.
type Notifier struct {
	client   publisher
	topicARN string
	from     string
}

func NewNotifier(ctx context.Context, cfg *config.Config) (*Notifier, error) {
	awsCfg, err := awsinfra.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	opts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &Notifier{
		client:   sns.NewFromConfig(awsCfg, opts...),
		topicARN: cfg.SNSTopicARN,
		from:     cfg.SenderEmail,
	}, nil
}

func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			AttrTo:   {DataType: aws.String("String"), StringValue: aws.String(to)},
			AttrFrom: {DataType: aws.String("String"), StringValue: aws.String(n.from)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish email to %s: %w", to, err)
	}
	return nil
}
