package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/kelseyhightower/envconfig"
)

const tokenParameterName = "/task-reminder-bot/prod/telegram-token"

type Config struct {
	Dev           bool          `envconfig:"DEV" default:"false"`
	ScanInterval  time.Duration `envconfig:"SCAN_INTERVAL" default:"10s"`
	TelegramToken string        `envconfig:"TELEGRAM_TOKEN"`
}

// New reads configuration from the environment. Outside dev mode the telegram
// token comes from SSM Parameter Store instead of the environment.
func New(ctx context.Context) (*Config, error) {
	res := &Config{}

	err := envconfig.Process("", res)
	if err != nil {
		return nil, fmt.Errorf("envconfig process: %w", err)
	}

	if !res.Dev {
		res.TelegramToken, err = getSSMToken(ctx)
		if err != nil {
			return nil, err
		}
	}

	if res.TelegramToken == "" {
		return nil, errors.New("telegram token is required")
	}

	return res, nil
}

func getSSMToken(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	ssmClient := ssm.NewFromConfig(cfg)

	param, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(tokenParameterName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get SSM token: %w", err)
	}
	if param.Parameter.Value == nil {
		return "", errors.New("SSM Token not found")
	}

	return *param.Parameter.Value, nil
}
