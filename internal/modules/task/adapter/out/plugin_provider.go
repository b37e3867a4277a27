package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	providerrpc "forge/internal/modules/task/adapter/out/rpc"
	"forge/internal/modules/task/domain"
	taskout "forge/internal/modules/task/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginProvider hosts an external task backend as a go-plugin subprocess.
// Each call spawns the provider, performs one RPC and kills it; providers are
// expected to be cheap local binaries fronting the real store.
type PluginProvider struct {
	binary string
}

func NewPluginProvider(binary string) taskout.Provider {
	return &PluginProvider{binary: binary}
}

func (p *PluginProvider) Check(ctx context.Context) error {
	client, closeFn, err := p.connect(defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := p.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (p *PluginProvider) ListPending(ctx context.Context) ([]domain.Task, error) {
	client, closeFn, err := p.connect(defaultStartTimeout)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := p.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.ListPending(callCtx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	tasks := make([]domain.Task, 0, len(response.Tasks))
	for _, record := range response.Tasks {
		tasks = append(tasks, domain.Task{
			ID:          record.ID,
			Title:       record.Title,
			DurationMin: record.DurationMin,
			Energy:      domain.Energy(record.Energy),
			Priority:    domain.Priority(record.Priority),
			Status:      domain.Status(record.Status),
		})
	}
	return tasks, nil
}

func (p *PluginProvider) MarkCompleted(ctx context.Context, id string) error {
	client, closeFn, err := p.connect(defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := p.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.MarkCompleted(callCtx, &providerrpc.MarkCompletedRequest{TaskID: id}); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (p *PluginProvider) connect(startTimeout time.Duration) (providerrpc.TaskProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  providerrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          providerrpc.PluginMap(nil),
		Cmd:              exec.Command(p.binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(providerrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(providerrpc.TaskProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (p *PluginProvider) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
