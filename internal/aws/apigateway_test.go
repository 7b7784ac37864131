package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPIGateway struct {
	getRestApi   func(*apigateway.GetRestApiInput) (*apigateway.GetRestApiOutput, error)
	getRestApis  func(*apigateway.GetRestApisInput) (*apigateway.GetRestApisOutput, error)
	getStage     func(*apigateway.GetStageInput) (*apigateway.GetStageOutput, error)
	getResources func(*apigateway.GetResourcesInput) (*apigateway.GetResourcesOutput, error)
	getMethod    func(*apigateway.GetMethodInput) (*apigateway.GetMethodOutput, error)
}

func (f *fakeAPIGateway) GetRestApi(ctx context.Context, params *apigateway.GetRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApiOutput, error) {
	return f.getRestApi(params)
}

func (f *fakeAPIGateway) GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	return f.getRestApis(params)
}

func (f *fakeAPIGateway) GetStage(ctx context.Context, params *apigateway.GetStageInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStageOutput, error) {
	return f.getStage(params)
}

func (f *fakeAPIGateway) GetResources(ctx context.Context, params *apigateway.GetResourcesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetResourcesOutput, error) {
	return f.getResources(params)
}

func (f *fakeAPIGateway) GetMethod(ctx context.Context, params *apigateway.GetMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.GetMethodOutput, error) {
	return f.getMethod(params)
}

func strPtr(s string) *string { return &s }

func TestCheckAPIExists(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getRestApi: func(in *apigateway.GetRestApiInput) (*apigateway.GetRestApiOutput, error) {
			assert.Equal(t, "abc123", *in.RestApiId)
			return &apigateway.GetRestApiOutput{Id: strPtr("abc123")}, nil
		},
	})

	check, err := gateway.CheckAPI(context.Background(), "abc123")
	require.NoError(t, err)

	assert.True(t, check.Exists)
	assert.True(t, check.Authorized)
}

func TestCheckAPINotFound(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getRestApi: func(in *apigateway.GetRestApiInput) (*apigateway.GetRestApiOutput, error) {
			return nil, &apigwtypes.NotFoundException{Message: strPtr("Invalid REST API identifier")}
		},
	})

	check, err := gateway.CheckAPI(context.Background(), "nope")
	require.NoError(t, err)

	assert.False(t, check.Exists)
	assert.True(t, check.Authorized)
}

func TestCheckAPIUnauthorized(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getRestApi: func(in *apigateway.GetRestApiInput) (*apigateway.GetRestApiOutput, error) {
			return nil, &apigwtypes.UnauthorizedException{Message: strPtr("no apigateway:GET")}
		},
	})

	check, err := gateway.CheckAPI(context.Background(), "abc123")
	require.NoError(t, err)

	assert.False(t, check.Exists)
	assert.False(t, check.Authorized)
}

func TestCheckAPIUnexpectedError(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getRestApi: func(in *apigateway.GetRestApiInput) (*apigateway.GetRestApiOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "slow down"}
		},
	})

	_, err := gateway.CheckAPI(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TooManyRequestsException")
}

func TestCheckAPIEmptyID(t *testing.T) {
	// No API call is made for an empty id
	gateway := NewGateway(&fakeAPIGateway{})

	check, err := gateway.CheckAPI(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, check.Exists)
	assert.True(t, check.Authorized)
}

func TestCheckStageWithAccessLogs(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getStage: func(in *apigateway.GetStageInput) (*apigateway.GetStageOutput, error) {
			assert.Equal(t, "prod", *in.StageName)
			return &apigateway.GetStageOutput{
				StageName: strPtr("prod"),
				AccessLogSettings: &apigwtypes.AccessLogSettings{
					DestinationArn: strPtr("arn:aws:logs:us-east-1:111122223333:log-group:access-logs"),
				},
			}, nil
		},
	})

	check, err := gateway.CheckStage(context.Background(), "abc123", "prod")
	require.NoError(t, err)

	assert.True(t, check.Exists)
	assert.Equal(t, "arn:aws:logs:us-east-1:111122223333:log-group:access-logs", check.AccessLogGroup)
}

func TestCheckStageNotFound(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getStage: func(in *apigateway.GetStageInput) (*apigateway.GetStageOutput, error) {
			return nil, &apigwtypes.NotFoundException{Message: strPtr("Invalid stage identifier")}
		},
	})

	check, err := gateway.CheckStage(context.Background(), "abc123", "staging")
	require.NoError(t, err)

	assert.False(t, check.Exists)
	assert.Empty(t, check.AccessLogGroup)
}

func TestCheckResourcePaginatesToMatch(t *testing.T) {
	var positions []string
	gateway := NewGateway(&fakeAPIGateway{
		getResources: func(in *apigateway.GetResourcesInput) (*apigateway.GetResourcesOutput, error) {
			if in.Position == nil {
				positions = append(positions, "")
				return &apigateway.GetResourcesOutput{
					Items: []apigwtypes.Resource{
						{Id: strPtr("root00"), Path: strPtr("/")},
						{Id: strPtr("pets01"), Path: strPtr("/pets")},
					},
					Position: strPtr("page2"),
				}, nil
			}
			positions = append(positions, *in.Position)
			return &apigateway.GetResourcesOutput{
				Items: []apigwtypes.Resource{
					{Id: strPtr("users1"), Path: strPtr("/users")},
				},
			}, nil
		},
	})

	check, err := gateway.CheckResource(context.Background(), "abc123", "/users")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "page2"}, positions)
	assert.True(t, check.Exists)
	assert.Equal(t, "users1", check.ResourceID)
}

func TestCheckResourceNoExactMatch(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getResources: func(in *apigateway.GetResourcesInput) (*apigateway.GetResourcesOutput, error) {
			return &apigateway.GetResourcesOutput{
				Items: []apigwtypes.Resource{
					{Id: strPtr("users1"), Path: strPtr("/users/{id}")},
				},
			}, nil
		},
	})

	check, err := gateway.CheckResource(context.Background(), "abc123", "/users")
	require.NoError(t, err)

	assert.False(t, check.Exists)
	assert.Empty(t, check.ResourceID)
}

func TestCheckMethodExists(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getMethod: func(in *apigateway.GetMethodInput) (*apigateway.GetMethodOutput, error) {
			assert.Equal(t, "GET", *in.HttpMethod)
			return &apigateway.GetMethodOutput{HttpMethod: strPtr("GET")}, nil
		},
	})

	check, err := gateway.CheckMethod(context.Background(), "abc123", "users1", "GET")
	require.NoError(t, err)
	assert.True(t, check.Exists)
}

func TestCheckMethodNotFound(t *testing.T) {
	gateway := NewGateway(&fakeAPIGateway{
		getMethod: func(in *apigateway.GetMethodInput) (*apigateway.GetMethodOutput, error) {
			return nil, &apigwtypes.NotFoundException{Message: strPtr("Invalid Method identifier")}
		},
	})

	check, err := gateway.CheckMethod(context.Background(), "abc123", "users1", "DELETE")
	require.NoError(t, err)
	assert.False(t, check.Exists)
	assert.True(t, check.Authorized)
}

func TestListAPIsPaginates(t *testing.T) {
	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	gateway := NewGateway(&fakeAPIGateway{
		getRestApis: func(in *apigateway.GetRestApisInput) (*apigateway.GetRestApisOutput, error) {
			if in.Position == nil {
				return &apigateway.GetRestApisOutput{
					Items:    []apigwtypes.RestApi{{Id: strPtr("abc123"), Name: strPtr("orders"), CreatedDate: &created}},
					Position: strPtr("page2"),
				}, nil
			}
			return &apigateway.GetRestApisOutput{
				Items: []apigwtypes.RestApi{{Id: strPtr("def456"), Name: strPtr("billing")}},
			}, nil
		},
	})

	apis, err := gateway.ListAPIs(context.Background())
	require.NoError(t, err)

	require.Len(t, apis, 2)
	assert.Equal(t, "abc123", apis[0].ID)
	assert.Equal(t, "2026-01-15 09:30", apis[0].CreatedDate)
	assert.Equal(t, "billing", apis[1].Name)
}

func TestClassifyErrorFallsBackToCode(t *testing.T) {
	notFound, unauthorized, err := classifyError(&smithy.GenericAPIError{Code: "NotFoundException"})
	assert.True(t, notFound)
	assert.False(t, unauthorized)
	assert.Error(t, err)

	notFound, unauthorized, _ = classifyError(&smithy.GenericAPIError{Code: "AccessDeniedException"})
	assert.False(t, notFound)
	assert.True(t, unauthorized)

	plain := errors.New("dial tcp: connection refused")
	notFound, unauthorized, err = classifyError(plain)
	assert.False(t, notFound)
	assert.False(t, unauthorized)
	assert.Equal(t, plain, err)
}
