package flspdaemon

import (
	"context"
	"fmt"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"go.lsp.dev/protocol"
)

// Connect opens a fresh connection to the analysis server and tells the user about the outcome.
func (c *controller) Connect(ctx context.Context) (*entity.Status, error) {
	status, err := c.connection.Connect(ctx)
	if err != nil {
		c.showMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("Could not connect to flowR: %s", err))
		return nil, err
	}

	message := fmt.Sprintf("Connected to flowR at %s", status.Server)
	messageType := protocol.MessageTypeInfo
	if status.Info != nil {
		message = fmt.Sprintf("Connected to flowR %s (R %s) at %s", status.Info.FlowrVersion, status.Info.RVersion, status.Server)
		if !status.Info.Compatible {
			message = fmt.Sprintf("%s, this version is older than the supported minimum %s", message, c.connection.Config().MinimumServerVersion)
			messageType = protocol.MessageTypeWarning
		}
	}
	c.showMessage(ctx, messageType, message)
	return &status, nil
}

func (c *controller) Disconnect(ctx context.Context) (*entity.Status, error) {
	if err := c.connection.Disconnect(ctx); err != nil {
		c.logger.Warnf("disconnecting: %s", err)
	}
	status := c.connection.Status(ctx)
	return &status, nil
}

func (c *controller) Status(ctx context.Context) (*entity.Status, error) {
	status := c.connection.Status(ctx)
	return &status, nil
}

func (c *controller) ToggleCriterion(ctx context.Context, params *entity.ToggleCriterionParams) (*entity.SliceState, error) {
	return c.slicer.ToggleCriterion(ctx, params)
}

func (c *controller) ClearSlice(ctx context.Context, params *entity.DocumentParams) (*entity.SliceState, error) {
	return c.slicer.ClearSlice(ctx, params.TextDocument)
}

func (c *controller) Reconstruct(ctx context.Context, params *entity.DocumentParams) (*entity.Reconstruction, error) {
	return c.slicer.Reconstruct(ctx, params.TextDocument)
}

func (c *controller) Dependencies(ctx context.Context, params *entity.DocumentParams) (*entity.DependencyView, error) {
	return c.dependencies.Dependencies(ctx, params.TextDocument)
}

func (c *controller) showMessage(ctx context.Context, messageType protocol.MessageType, message string) {
	if err := c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{Type: messageType, Message: message}); err != nil {
		c.logger.Warnf("sending message: %s", err)
	}
}
