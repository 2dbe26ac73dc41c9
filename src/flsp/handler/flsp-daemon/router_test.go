package flspdaemon

import (
	"context"
	"testing"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/flsp-daemon/flspdaemonmock"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/factory"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/mock/gomock"
)

func TestHandleReq(t *testing.T) {
	ctx := context.Background()
	m := jsonRPCRouter{}

	request, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), "sampleMethod", []string{"val1", "val2"})
	err := m.HandleReq(ctx, newMockReplier(), request)
	assert.Error(t, err)
}

func TestHandleReqSetsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := flspdaemonmock.NewMockController(ctrl)
	id := factory.UUID()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	c.EXPECT().Status(gomock.Any()).DoAndReturn(func(ctx context.Context) (*entity.Status, error) {
		resultID, err := mapper.ContextToSessionUUID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, id, resultID)
		return &entity.Status{State: entity.SessionStateDisconnected}, nil
	})

	r := jsonRPCRouter{flspdaemon: c, uuid: id, stats: testScope}
	err := r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(entity.MethodStatus, nil))
	assert.NoError(t, err)

	counters := testScope.Snapshot().Counters()
	assert.Equal(t, int64(1), counters["testing.requests+method="+entity.MethodStatus].Value())
}

func TestUUID(t *testing.T) {
	sampleUUID := factory.UUID()
	m := jsonRPCRouter{uuid: sampleUUID}
	assert.Equal(t, sampleUUID, m.UUID())
}
