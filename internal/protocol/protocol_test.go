package protocol_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/internal/protocol"
	"github.com/sandrolain/scoreplot/pkg/types"
)

func TestRequestJSON(t *testing.T) {
	var req protocol.Request
	err := json.Unmarshal([]byte(`{"formula":"sum(price,1)","field":"price","start":0,"end":1,"step":0.5,"extensions":["numeric"]}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "sum(price,1)", req.Formula)
	assert.Equal(t, "price", req.Field)
	assert.Equal(t, 1.0, req.End)
	assert.Equal(t, 0.5, req.Step)
	assert.Equal(t, []string{"numeric"}, req.Extensions)
}

func TestHandle(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:    scoreplot.Request{Formula: "sin(price)", Field: "price", End: 1},
		Step:       0.5,
		Extensions: []string{"numeric"},
	})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "sin(x)", resp.Result.Formula)
	assert.Equal(t, 3, resp.Result.Samples.Len())
	assert.NoError(t, resp.Err())
}

func TestHandleUnseeded(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:  scoreplot.Request{Formula: "sum(x,10)", End: 1},
		Unseeded: true,
	})
	require.NotNil(t, resp.Result)
	assert.Equal(t, 10.0, resp.Result.Samples.MinY)
}

func TestHandleCustomVariable(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:  scoreplot.Request{Formula: "pow(v,2)", End: 1},
		Variable: "v",
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "v", resp.Result.Label)
}

func TestHandleLenient(t *testing.T) {
	req := protocol.Request{Request: scoreplot.Request{Formula: "sum(x,2abc)", End: 1}}

	resp := protocol.Handle(context.Background(), req)
	assert.Equal(t, types.ErrInvalidNumber, resp.Code)

	req.Lenient = true
	resp = protocol.Handle(context.Background(), req)
	require.Empty(t, resp.Error)
	assert.Equal(t, 2.0, resp.Result.Samples.Points[0].Y)
}

func TestHandleFormulaError(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request: scoreplot.Request{Formula: "sum(x, bogus(1))", End: 1},
	})
	assert.Nil(t, resp.Result)
	assert.Equal(t, types.ErrUnknownFunction, resp.Code)
	require.NotNil(t, resp.Position)
	assert.Equal(t, 6, *resp.Position)

	err := resp.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCode(types.ErrUnknownFunction)))
}

func TestHandleUnknownExtension(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:    scoreplot.Request{Formula: "x", End: 1},
		Extensions: []string{"strings"},
	})
	assert.Contains(t, resp.Error, "strings")
	assert.Empty(t, resp.Code)
	assert.EqualError(t, resp.Err(), resp.Error)
}

func TestFail(t *testing.T) {
	resp := protocol.Fail(types.NewError(types.ErrInvalidRange, "step must be positive", -1))
	assert.Equal(t, types.ErrInvalidRange, resp.Code)
	assert.Equal(t, "step must be positive", resp.Error)
	assert.Nil(t, resp.Position)

	plain := protocol.Fail(errors.New("boom"))
	assert.Equal(t, "boom", plain.Error)
	assert.Empty(t, plain.Code)
}

func TestResponseJSONRoundTrip(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request: scoreplot.Request{Formula: "div(1,x)", End: 1},
	})
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var back protocol.Response
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Result)
	assert.Equal(t, resp.Result.Samples.Len(), back.Result.Samples.Len())
	assert.Equal(t, resp.Result.Samples.Points[5], back.Result.Samples.Points[5])
}

func TestHandleInvalidTuning(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request: scoreplot.Request{Formula: "x", End: 1},
		Step:    -0.5,
	})
	assert.Nil(t, resp.Result)
	assert.Contains(t, resp.Error, "Step")
}

func TestHandleLimits(t *testing.T) {
	tests := []struct {
		name string
		req  protocol.Request
		code types.ErrorCode
	}{
		{
			name: "too many points",
			req: protocol.Request{
				Request:   scoreplot.Request{Formula: "x", End: 100},
				MaxPoints: 10,
			},
			code: types.ErrInvalidRange,
		},
		{
			name: "too deep",
			req: protocol.Request{
				Request:  scoreplot.Request{Formula: "abs(abs(abs(x)))", End: 1},
				MaxDepth: 2,
			},
			code: types.ErrDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := protocol.Handle(context.Background(), tt.req)
			assert.Nil(t, resp.Result)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestHandleLimitsWithinBounds(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:   scoreplot.Request{Formula: "abs(abs(abs(x)))", End: 1},
		MaxDepth:  4,
		MaxPoints: 6,
		Parallel:  true,
	})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 6, resp.Result.Samples.Len())
}

func TestHandleNegativeLimits(t *testing.T) {
	resp := protocol.Handle(context.Background(), protocol.Request{
		Request:   scoreplot.Request{Formula: "x", End: 1},
		MaxPoints: -1,
	})
	assert.Nil(t, resp.Result)
	assert.Contains(t, resp.Error, "MaxPoints")
}
