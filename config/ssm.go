package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterLister is the subset of the SSM client used to read secrets.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM reads every parameter under prefix using the default AWS credential chain.
func LoadSSM(ctx context.Context, prefix string) (map[string]string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return FetchParameters(ctx, ssm.NewFromConfig(awsCfg), prefix)
}

// FetchParameters returns the decrypted parameters under prefix keyed by
// their last path segment, so /portfolio/prod/RESEND_API_KEY becomes RESEND_API_KEY.
func FetchParameters(ctx context.Context, client ParameterLister, prefix string) (map[string]string, error) {
	out := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			if name == "" {
				continue
			}
			out[path.Base(name)] = aws.ToString(p.Value)
		}
	}
	return out, nil
}

// Merge copies params into cfg without overriding keys already set in the environment.
func Merge(cfg map[string]string, params map[string]string) map[string]string {
	if cfg == nil {
		cfg = make(map[string]string, len(params))
	}
	for k, v := range params {
		if _, ok := cfg[k]; !ok {
			cfg[k] = v
		}
	}
	return cfg
}
