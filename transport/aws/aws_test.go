package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-aws/sns"
	"github.com/ThreeDotsLabs/watermill-aws/sqs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/adbridge/transport"
	"github.com/drblury/adbridge/transport/transporttest"
)

func TestRegister(t *testing.T) {
	defer transporttest.UseRegistry()()
	Register()

	caps := transport.CapabilitiesOf(TransportName)
	assert.Equal(t, "aws", caps.Name)
	assert.False(t, caps.SupportsOrdering)
	assert.False(t, caps.Accepts(300<<10))
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "flutter_vungle-videoAd_P1", TopicName("flutter_vungle.videoAd_P1"))
}

type fakes struct {
	pub       *transporttest.Publisher
	sub       *transporttest.Subscriber
	accountID string
	region    string
	pubCfg    sns.PublisherConfig
}

func useFakes(t *testing.T) *fakes {
	t.Helper()
	origLoader, origResolver := DefaultConfigLoader, TopicResolverFactory
	origPub, origSub := PublisherFactory, SubscriberFactory
	t.Cleanup(func() {
		DefaultConfigLoader, TopicResolverFactory = origLoader, origResolver
		PublisherFactory, SubscriberFactory = origPub, origSub
	})

	f := &fakes{pub: &transporttest.Publisher{}, sub: &transporttest.Subscriber{}}
	DefaultConfigLoader = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	TopicResolverFactory = func(accountID, region string) (*sns.GenerateArnTopicResolver, error) {
		f.accountID, f.region = accountID, region
		return sns.NewGenerateArnTopicResolver(accountID, region)
	}
	PublisherFactory = func(cfg sns.PublisherConfig, _ watermill.LoggerAdapter) (message.Publisher, error) {
		f.pubCfg = cfg
		return f.pub, nil
	}
	SubscriberFactory = func(sns.SubscriberConfig, sqs.SubscriberConfig, watermill.LoggerAdapter) (message.Subscriber, error) {
		return f.sub, nil
	}
	return f
}

func TestBuild(t *testing.T) {
	t.Run("rewrites topics", func(t *testing.T) {
		f := useFakes(t)
		tr, err := Build(context.Background(), &transporttest.Config{
			AWSRegion:    "eu-west-1",
			AWSAccountID: "'123456789012'",
		}, watermill.NopLogger{})
		require.NoError(t, err)
		assert.Equal(t, "123456789012", f.accountID)
		assert.Equal(t, "eu-west-1", f.region)
		assert.Equal(t, "eu-west-1", f.pubCfg.AWSConfig.Region)
		assert.Empty(t, f.pubCfg.OptFns)

		require.NoError(t, tr.Publisher.Publish("a.b", message.NewMessage("1", nil)))
		_, err = tr.Subscriber.Subscribe(context.Background(), "a.c")
		require.NoError(t, err)
		assert.Equal(t, []string{"a-b"}, f.pub.Topics)
		assert.Equal(t, []string{"a-c"}, f.sub.Topics)
	})

	t.Run("custom endpoint uses the LocalStack account", func(t *testing.T) {
		f := useFakes(t)
		_, err := Build(context.Background(), &transporttest.Config{
			AWSRegion:   "us-east-1",
			AWSEndpoint: "http://localhost:4566",
		}, watermill.NopLogger{})
		require.NoError(t, err)
		assert.Equal(t, localstackAccountID, f.accountID)
		assert.Len(t, f.pubCfg.OptFns, 1)
	})

	t.Run("region is required", func(t *testing.T) {
		useFakes(t)
		_, err := Build(context.Background(), &transporttest.Config{}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "region is required")
	})

	t.Run("config loader failure", func(t *testing.T) {
		useFakes(t)
		DefaultConfigLoader = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no credentials")
		}
		_, err := Build(context.Background(), &transporttest.Config{AWSRegion: "us-east-1"}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "no credentials")
	})

	t.Run("subscriber failure closes the publisher", func(t *testing.T) {
		f := useFakes(t)
		SubscriberFactory = func(sns.SubscriberConfig, sqs.SubscriberConfig, watermill.LoggerAdapter) (message.Subscriber, error) {
			return nil, errors.New("subscriber error")
		}
		_, err := Build(context.Background(), &transporttest.Config{
			AWSRegion:    "us-east-1",
			AWSAccountID: "123456789012",
		}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "subscriber error")
		assert.Equal(t, 1, f.pub.Closed)
	})
}
