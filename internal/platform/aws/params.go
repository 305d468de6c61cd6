package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParametersByPath batch-reads all SSM parameters under the path prefix,
// returning them keyed by the last path element. SecureString values are
// decrypted.
func (c *RealClient) ParametersByPath(ctx context.Context, path string) (map[string]string, error) {
	params := make(map[string]string)
	var next *string
	for {
		out, err := c.ssmClient.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           awssdk.String(path),
			Recursive:      awssdk.Bool(true),
			WithDecryption: awssdk.Bool(true),
			NextToken:      next,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read parameters under %q: %w", path, err)
		}

		for _, p := range out.Parameters {
			name := awssdk.ToString(p.Name)
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				name = name[idx+1:]
			}
			params[name] = awssdk.ToString(p.Value)
		}

		if out.NextToken == nil {
			return params, nil
		}
		next = out.NextToken
	}
}
