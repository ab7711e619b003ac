package database

import (
	"context"
	"fmt"

	"payment_relay/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	log "github.com/sirupsen/logrus"
)

// ConnectDynamoDB creates a DynamoDB client for the order store.
//
// When DYNAMODB_ENDPOINT is set (dynamodb-local, localstack) requests are sent
// there instead of the regional AWS endpoint.
func ConnectDynamoDB(ctx context.Context, cfg config.StoreConfig) (*dynamodb.Client, error) {
	awsCfg, err := NewDynamoDBConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamodb config: %w", err)
	}
	log.WithFields(log.Fields{
		"region":   cfg.AWSRegion,
		"endpoint": cfg.DynamoDBEndpoint,
		"table":    cfg.OrdersTable,
	}).Info("[database][dynamodb] client created")
	return dynamodb.NewFromConfig(awsCfg), nil
}

func NewDynamoDBConfig(ctx context.Context, cfg config.StoreConfig) (aws.Config, error) {
	region := cfg.AWSRegion
	if region == "" {
		region = "us-east-1"
	}

	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(
		valueOr(cfg.AWSAccessKeyID, "local"),
		valueOr(cfg.AWSSecretAccessKey, "local"),
		"",
	)

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(creds),
	}

	if endpoint := cfg.DynamoDBEndpoint; endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}

func valueOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
