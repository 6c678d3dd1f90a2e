package transport

import (
	"context"
	"encoding/json"
	"strconv"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"crm/pkg/domain/model"
)

const ServiceName = "crm.v1.CRMService"

// CRMServer is the gRPC surface. Requests and responses are JSON objects
// carried as google.protobuf.Struct, shaped like the HTTP bodies.
type CRMServer interface {
	CreateCustomer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	BulkCreateCustomers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	CreateProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	CreateOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AllCustomers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AllProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AllOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(CRMServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call structMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(CRMServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*structpb.Struct))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CRMServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateCustomer", CRMServer.CreateCustomer),
		unaryMethod("BulkCreateCustomers", CRMServer.BulkCreateCustomers),
		unaryMethod("CreateProduct", CRMServer.CreateProduct),
		unaryMethod("CreateOrder", CRMServer.CreateOrder),
		unaryMethod("AllCustomers", CRMServer.AllCustomers),
		unaryMethod("AllProducts", CRMServer.AllProducts),
		unaryMethod("AllOrders", CRMServer.AllOrders),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "crm/v1/crm.proto",
}

// NewGRPCServer registers the CRM service and the standard health service.
func NewGRPCServer(api *API, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logInterceptor, recoverInterceptor))
	s := grpc.NewServer(opts...)
	s.RegisterService(&serviceDesc, &grpcServer{api: api})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

func logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	log.WithField("method", info.FullMethod).Info("got a new grpc request")
	return handler(ctx, req)
}

// recoverInterceptor reports a panicking handler as an Internal error.
func recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.WithFields(log.Fields{"method": info.FullMethod, "panic": p}).Error("grpc handler panicked")
			resp, err = nil, status.Error(codes.Internal, "InternalError: internal error")
		}
	}()
	return handler(ctx, req)
}

type grpcServer struct {
	api *API
}

func (s *grpcServer) CreateCustomer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return mutate(ctx, in, s.api.CreateCustomer)
}

func (s *grpcServer) BulkCreateCustomers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return mutate(ctx, in, s.api.BulkCreateCustomers)
}

func (s *grpcServer) CreateProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return mutate(ctx, in, s.api.CreateProduct)
}

func (s *grpcServer) CreateOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return mutate(ctx, in, s.api.CreateOrder)
}

func (s *grpcServer) AllCustomers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return list(ctx, in, s.api.AllCustomers)
}

func (s *grpcServer) AllProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return list(ctx, in, s.api.AllProducts)
}

func (s *grpcServer) AllOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return list(ctx, in, s.api.AllOrders)
}

func mutate(ctx context.Context, in *structpb.Struct, op func(context.Context, []byte) (any, error)) (*structpb.Struct, error) {
	body, err := protojson.Marshal(in)
	if err != nil {
		return nil, grpcError(&requestError{cause: err})
	}
	result, err := op(ctx, body)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(result)
}

func list(ctx context.Context, in *structpb.Struct, op func(context.Context, map[string]string) (any, error)) (*structpb.Struct, error) {
	params := make(map[string]string, len(in.GetFields()))
	for key, value := range in.GetFields() {
		switch v := value.GetKind().(type) {
		case *structpb.Value_StringValue:
			params[key] = v.StringValue
		case *structpb.Value_NumberValue:
			params[key] = strconv.FormatFloat(v.NumberValue, 'f', -1, 64)
		case *structpb.Value_BoolValue:
			params[key] = strconv.FormatBool(v.BoolValue)
		default:
			return nil, status.Errorf(codes.InvalidArgument, "filter %q must be a scalar", key)
		}
	}
	result, err := op(ctx, params)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(result)
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func grpcError(err error) error {
	body, ok := describe(err)
	if !ok {
		log.WithError(err).Error("grpc request failed")
	}
	return status.Error(grpcCode(err, ok), body.Kind+": "+body.Message)
}

func grpcCode(err error, clientError bool) codes.Code {
	kind, isKind := model.KindOf(err)
	switch {
	case isKind && kind == model.DuplicateEmail:
		return codes.AlreadyExists
	case isKind && (kind == model.CustomerNotFound || kind == model.ProductNotFound):
		return codes.NotFound
	case clientError:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// Client calls CRMServer methods over a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
