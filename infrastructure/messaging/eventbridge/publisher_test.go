package eventbridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAPI is a mock implementation of the EventBridge API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func chartEvents(n int) []events.DomainEvent {
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewChartGenerated(valueobjects.NewChartID(), "u1", "leo", true, time.Now()))
	}
	return out
}

func TestPublisher_ChunksBatches(t *testing.T) {
	api := new(MockAPI)
	p := NewPublisher(api, "bus", zap.NewNop())

	var sizes []int
	api.On("PutEvents", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		in := args.Get(1).(*eventbridge.PutEventsInput)
		sizes = append(sizes, len(in.Entries))
		assert.Equal(t, "bus", aws.ToString(in.Entries[0].EventBusName))
		assert.Equal(t, Source, aws.ToString(in.Entries[0].Source))
		assert.Equal(t, events.TypeChartGenerated, aws.ToString(in.Entries[0].DetailType))
	}).Return(&eventbridge.PutEventsOutput{}, nil)

	require.NoError(t, p.PublishBatch(context.Background(), chartEvents(23)))
	assert.Equal(t, []int{10, 10, 3}, sizes)
}

func TestPublisher_ReportsFailures(t *testing.T) {
	api := new(MockAPI)
	p := NewPublisher(api, "bus", zap.NewNop())

	api.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
	}, nil).Once()
	assert.ErrorContains(t, p.Publish(context.Background(), chartEvents(1)[0]), "1 events failed")

	api.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("network")).Once()
	assert.ErrorContains(t, p.Publish(context.Background(), chartEvents(1)[0]), "network")
}

func TestPublisher_EmptyBatchIsNoop(t *testing.T) {
	api := new(MockAPI)
	p := NewPublisher(api, "bus", zap.NewNop())
	require.NoError(t, p.PublishBatch(context.Background(), nil))
	api.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}
