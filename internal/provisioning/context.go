package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/aistack/internal/config"
	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.DeploymentConfig
	State    *State
	Cloud    awsplatform.CloudManager
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.DeploymentConfig,
	cloud awsplatform.CloudManager,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Cloud:    cloud,
		Observer: NewConsoleObserver().WithFields(map[string]string{"stack": cfg.Stack}),
		Timeouts: config.LoadTimeouts(),
	}
}

// Resource naming helpers. Every resource name derives from the stack name
// so discovery never needs local state.

func (c *Context) keyPairName() string {
	return c.Config.Stack + "-key"
}

func (c *Context) securityGroupName() string {
	return c.Config.Stack + "-sg"
}

func (c *Context) roleName() string {
	return c.Config.Stack + "-role"
}

func (c *Context) profileName() string {
	return c.Config.Stack + "-profile"
}

func (c *Context) loadBalancerName() string {
	return c.Config.Stack + "-alb"
}

func (c *Context) targetGroupName() string {
	return c.Config.Stack + "-tg"
}

func (c *Context) instanceName() string {
	return fmt.Sprintf("%s-node", c.Config.Stack)
}

func (c *Context) stackTags() map[string]string {
	return awsplatform.StackTags(c.Config.Stack)
}
