package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/smithy-go"

	"gwprobe/pkg/types"
)

// APIGatewayAPI is the subset of the API Gateway management surface the
// verifiers need. Satisfied by *apigateway.Client.
type APIGatewayAPI interface {
	GetRestApi(ctx context.Context, params *apigateway.GetRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApiOutput, error)
	GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
	GetStage(ctx context.Context, params *apigateway.GetStageInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStageOutput, error)
	GetResources(ctx context.Context, params *apigateway.GetResourcesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetResourcesOutput, error)
	GetMethod(ctx context.Context, params *apigateway.GetMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.GetMethodOutput, error)
}

// Gateway runs existence checks against the API Gateway management API
type Gateway struct {
	api APIGatewayAPI
}

// NewGateway creates a Gateway over the given API Gateway client
func NewGateway(api APIGatewayAPI) *Gateway {
	return &Gateway{api: api}
}

// CheckAPI verifies that a REST API exists and is accessible
func (g *Gateway) CheckAPI(ctx context.Context, apiID string) (types.APICheck, error) {
	check := types.APICheck{APIID: apiID, Authorized: true}
	if apiID == "" {
		return check, nil
	}

	out, err := g.api.GetRestApi(ctx, &apigateway.GetRestApiInput{
		RestApiId: &apiID,
	})
	if err != nil {
		notFound, unauthorized, cerr := classifyError(err)
		if notFound {
			return check, nil
		}
		if unauthorized {
			check.Authorized = false
			return check, nil
		}
		return check, fmt.Errorf("failed to get rest api %s: %w", apiID, cerr)
	}

	check.Exists = deref(out.Id) == apiID
	return check, nil
}

// CheckStage verifies that a deployment stage exists for the API. When
// the stage has access logging configured, the destination ARN is
// returned so the log analyzer can scan the access log group too.
func (g *Gateway) CheckStage(ctx context.Context, apiID, stageName string) (types.StageCheck, error) {
	check := types.StageCheck{APIID: apiID, StageName: stageName, Authorized: true}
	if apiID == "" || stageName == "" {
		return check, nil
	}

	out, err := g.api.GetStage(ctx, &apigateway.GetStageInput{
		RestApiId: &apiID,
		StageName: &stageName,
	})
	if err != nil {
		notFound, unauthorized, cerr := classifyError(err)
		if notFound {
			return check, nil
		}
		if unauthorized {
			check.Authorized = false
			return check, nil
		}
		return check, fmt.Errorf("failed to get stage %s for api %s: %w", stageName, apiID, cerr)
	}

	check.Exists = deref(out.StageName) == stageName
	if check.Exists && out.AccessLogSettings != nil {
		check.AccessLogGroup = deref(out.AccessLogSettings.DestinationArn)
	}
	return check, nil
}

// CheckResource looks for an exact resource path match under the API.
// The matched resource id feeds the method check.
func (g *Gateway) CheckResource(ctx context.Context, apiID, resourcePath string) (types.ResourceCheck, error) {
	check := types.ResourceCheck{APIID: apiID, Path: resourcePath, Authorized: true}
	if apiID == "" || resourcePath == "" {
		return check, nil
	}

	input := &apigateway.GetResourcesInput{RestApiId: &apiID}
	for {
		out, err := g.api.GetResources(ctx, input)
		if err != nil {
			notFound, unauthorized, cerr := classifyError(err)
			if notFound {
				return check, nil
			}
			if unauthorized {
				check.Authorized = false
				return check, nil
			}
			return check, fmt.Errorf("failed to list resources for api %s: %w", apiID, cerr)
		}

		for _, item := range out.Items {
			if deref(item.Path) == resourcePath {
				check.Exists = true
				check.ResourceID = deref(item.Id)
			}
		}

		if out.Position == nil {
			break
		}
		input.Position = out.Position
	}

	return check, nil
}

// CheckMethod verifies that an HTTP method is configured on a resource
func (g *Gateway) CheckMethod(ctx context.Context, apiID, resourceID, httpMethod string) (types.MethodCheck, error) {
	check := types.MethodCheck{APIID: apiID, ResourceID: resourceID, Method: httpMethod, Authorized: true}
	if apiID == "" || resourceID == "" || httpMethod == "" {
		return check, nil
	}

	out, err := g.api.GetMethod(ctx, &apigateway.GetMethodInput{
		RestApiId:  &apiID,
		ResourceId: &resourceID,
		HttpMethod: &httpMethod,
	})
	if err != nil {
		notFound, unauthorized, cerr := classifyError(err)
		if notFound {
			return check, nil
		}
		if unauthorized {
			check.Authorized = false
			return check, nil
		}
		return check, fmt.Errorf("failed to get method %s on resource %s for api %s: %w", httpMethod, resourceID, apiID, cerr)
	}

	check.Exists = deref(out.HttpMethod) == httpMethod
	return check, nil
}

// ListAPIs returns all REST APIs in the account/region
func (g *Gateway) ListAPIs(ctx context.Context) ([]types.RestAPI, error) {
	var apis []types.RestAPI

	input := &apigateway.GetRestApisInput{}
	for {
		out, err := g.api.GetRestApis(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list rest apis: %w", err)
		}

		for _, item := range out.Items {
			api := types.RestAPI{
				ID:          deref(item.Id),
				Name:        deref(item.Name),
				Description: deref(item.Description),
			}
			if item.CreatedDate != nil {
				api.CreatedDate = item.CreatedDate.Format("2006-01-02 15:04")
			}
			apis = append(apis, api)
		}

		if out.Position == nil {
			break
		}
		input.Position = out.Position
	}

	return apis, nil
}

// classifyError maps API Gateway faults to (notFound, unauthorized).
// Any other fault is returned wrapped with its service error code.
func classifyError(err error) (bool, bool, error) {
	var nfe *apigwtypes.NotFoundException
	if errors.As(err, &nfe) {
		return true, false, err
	}

	var ue *apigwtypes.UnauthorizedException
	if errors.As(err, &ue) {
		return false, true, err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFoundException":
			return true, false, err
		case "UnauthorizedException", "AccessDeniedException":
			return false, true, err
		default:
			return false, false, fmt.Errorf("unexpected api gateway error %s: %w", apiErr.ErrorCode(), err)
		}
	}

	return false, false, err
}
