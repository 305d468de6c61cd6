package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetKeyPair returns the key pair by name, or nil if it does not exist.
func (c *RealClient) GetKeyPair(ctx context.Context, name string) (*KeyPairInfo, error) {
	out, err := c.ec2Client.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe key pair %q: %w", name, err)
	}
	if len(out.KeyPairs) == 0 {
		return nil, nil
	}

	kp := out.KeyPairs[0]
	return &KeyPairInfo{
		ID:   awssdk.ToString(kp.KeyPairId),
		Name: awssdk.ToString(kp.KeyName),
	}, nil
}

// ImportKeyPair uploads a public key as a named key pair and returns its ID.
func (c *RealClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error) {
	out, err := c.ec2Client.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
		KeyName:           awssdk.String(name),
		PublicKeyMaterial: publicKey,
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeKeyPair, tags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to import key pair %q: %w", name, err)
	}

	return awssdk.ToString(out.KeyPairId), nil
}

// DeleteKeyPair deletes the key pair by name. Not-found is returned as-is so
// callers can treat it as success.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	_, err := c.ec2Client.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: awssdk.String(name),
	})
	return err
}

// ec2Tags converts a tag map to the EC2 tag representation in stable order.
func ec2Tags(tags map[string]string) []ec2types.Tag {
	out := make([]ec2types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, ec2types.Tag{
			Key:   awssdk.String(k),
			Value: awssdk.String(tags[k]),
		})
	}
	return out
}

// ec2TagSpec builds a creation-time tag specification for one resource type.
func ec2TagSpec(resourceType ec2types.ResourceType, tags map[string]string) []ec2types.TagSpecification {
	if len(tags) == 0 {
		return nil
	}
	return []ec2types.TagSpecification{{
		ResourceType: resourceType,
		Tags:         ec2Tags(tags),
	}}
}

// tagFilter builds the DescribeX filter matching a single tag.
func tagFilter(key, value string) ec2types.Filter {
	return ec2types.Filter{
		Name:   awssdk.String("tag:" + key),
		Values: []string{value},
	}
}
