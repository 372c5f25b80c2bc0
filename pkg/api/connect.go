package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// LandedCostServiceHandler serves landed cost calculations.
type LandedCostServiceHandler interface {
	Distribute(context.Context, *connect.Request[DistributeRequest]) (*connect.Response[DistributeResponse], error)
	ApplyVoucher(context.Context, *connect.Request[ApplyVoucherRequest]) (*connect.Response[ApplyVoucherResponse], error)
}

// SetupServiceHandler serves company configuration.
type SetupServiceHandler interface {
	SetupComplete(context.Context, *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error)
	QuickValidate(context.Context, *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error)
	FixWarehouseAccounts(context.Context, *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error)
	ImportChart(context.Context, *connect.Request[CompanyRequest]) (*connect.Response[ImportChartResponse], error)
}

// VisitServiceHandler serves visit planning.
type VisitServiceHandler interface {
	SaveSalesPerson(context.Context, *connect.Request[SaveSalesPersonRequest]) (*connect.Response[SaveSalesPersonResponse], error)
	SubmitVisitLog(context.Context, *connect.Request[SubmitVisitLogRequest]) (*connect.Response[SubmitVisitLogResponse], error)
	ResolvePeriod(context.Context, *connect.Request[ResolvePeriodRequest]) (*connect.Response[ResolvePeriodResponse], error)
}

// AuthServiceHandler serves operator registration and login.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
}

// route maps procedure paths onto handlers under one service prefix.
func route(service string, handlers map[string]http.Handler) (string, http.Handler) {
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// NewLandedCostServiceHandler builds the HTTP handler for svc.
func NewLandedCostServiceHandler(svc LandedCostServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(LandedCostServiceName, map[string]http.Handler{
		LandedCostDistributeProcedure:   connect.NewUnaryHandler(LandedCostDistributeProcedure, svc.Distribute, o...),
		LandedCostApplyVoucherProcedure: connect.NewUnaryHandler(LandedCostApplyVoucherProcedure, svc.ApplyVoucher, o...),
	})
}

// NewSetupServiceHandler builds the HTTP handler for svc.
func NewSetupServiceHandler(svc SetupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(SetupServiceName, map[string]http.Handler{
		SetupCompleteProcedure:             connect.NewUnaryHandler(SetupCompleteProcedure, svc.SetupComplete, o...),
		SetupQuickValidateProcedure:        connect.NewUnaryHandler(SetupQuickValidateProcedure, svc.QuickValidate, o...),
		SetupFixWarehouseAccountsProcedure: connect.NewUnaryHandler(SetupFixWarehouseAccountsProcedure, svc.FixWarehouseAccounts, o...),
		SetupImportChartProcedure:          connect.NewUnaryHandler(SetupImportChartProcedure, svc.ImportChart, o...),
	})
}

// NewVisitServiceHandler builds the HTTP handler for svc.
func NewVisitServiceHandler(svc VisitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(VisitServiceName, map[string]http.Handler{
		VisitSaveSalesPersonProcedure: connect.NewUnaryHandler(VisitSaveSalesPersonProcedure, svc.SaveSalesPerson, o...),
		VisitSubmitVisitLogProcedure:  connect.NewUnaryHandler(VisitSubmitVisitLogProcedure, svc.SubmitVisitLog, o...),
		VisitResolvePeriodProcedure:   connect.NewUnaryHandler(VisitResolvePeriodProcedure, svc.ResolvePeriod, o...),
	})
}

// NewAuthServiceHandler builds the HTTP handler for svc.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(AuthServiceName, map[string]http.Handler{
		AuthRegisterProcedure: connect.NewUnaryHandler(AuthRegisterProcedure, svc.Register, o...),
		AuthLoginProcedure:    connect.NewUnaryHandler(AuthLoginProcedure, svc.Login, o...),
	})
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}

// LandedCostClient calls LandedCostService.
type LandedCostClient struct {
	distribute   *connect.Client[DistributeRequest, DistributeResponse]
	applyVoucher *connect.Client[ApplyVoucherRequest, ApplyVoucherResponse]
}

// NewLandedCostClient returns a client for the service at baseURL.
func NewLandedCostClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LandedCostClient {
	o := clientOptions(opts)
	return &LandedCostClient{
		distribute:   connect.NewClient[DistributeRequest, DistributeResponse](httpClient, baseURL+LandedCostDistributeProcedure, o...),
		applyVoucher: connect.NewClient[ApplyVoucherRequest, ApplyVoucherResponse](httpClient, baseURL+LandedCostApplyVoucherProcedure, o...),
	}
}

func (c *LandedCostClient) Distribute(ctx context.Context, req *connect.Request[DistributeRequest]) (*connect.Response[DistributeResponse], error) {
	return c.distribute.CallUnary(ctx, req)
}

func (c *LandedCostClient) ApplyVoucher(ctx context.Context, req *connect.Request[ApplyVoucherRequest]) (*connect.Response[ApplyVoucherResponse], error) {
	return c.applyVoucher.CallUnary(ctx, req)
}

// SetupClient calls SetupService.
type SetupClient struct {
	setupComplete        *connect.Client[CompanyRequest, SetupResponse]
	quickValidate        *connect.Client[CompanyRequest, SetupResponse]
	fixWarehouseAccounts *connect.Client[CompanyRequest, SetupResponse]
	importChart          *connect.Client[CompanyRequest, ImportChartResponse]
}

// NewSetupClient returns a client for the service at baseURL.
func NewSetupClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SetupClient {
	o := clientOptions(opts)
	return &SetupClient{
		setupComplete:        connect.NewClient[CompanyRequest, SetupResponse](httpClient, baseURL+SetupCompleteProcedure, o...),
		quickValidate:        connect.NewClient[CompanyRequest, SetupResponse](httpClient, baseURL+SetupQuickValidateProcedure, o...),
		fixWarehouseAccounts: connect.NewClient[CompanyRequest, SetupResponse](httpClient, baseURL+SetupFixWarehouseAccountsProcedure, o...),
		importChart:          connect.NewClient[CompanyRequest, ImportChartResponse](httpClient, baseURL+SetupImportChartProcedure, o...),
	}
}

func (c *SetupClient) SetupComplete(ctx context.Context, req *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error) {
	return c.setupComplete.CallUnary(ctx, req)
}

func (c *SetupClient) QuickValidate(ctx context.Context, req *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error) {
	return c.quickValidate.CallUnary(ctx, req)
}

func (c *SetupClient) FixWarehouseAccounts(ctx context.Context, req *connect.Request[CompanyRequest]) (*connect.Response[SetupResponse], error) {
	return c.fixWarehouseAccounts.CallUnary(ctx, req)
}

func (c *SetupClient) ImportChart(ctx context.Context, req *connect.Request[CompanyRequest]) (*connect.Response[ImportChartResponse], error) {
	return c.importChart.CallUnary(ctx, req)
}

// VisitClient calls VisitService.
type VisitClient struct {
	saveSalesPerson *connect.Client[SaveSalesPersonRequest, SaveSalesPersonResponse]
	submitVisitLog  *connect.Client[SubmitVisitLogRequest, SubmitVisitLogResponse]
	resolvePeriod   *connect.Client[ResolvePeriodRequest, ResolvePeriodResponse]
}

// NewVisitClient returns a client for the service at baseURL.
func NewVisitClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *VisitClient {
	o := clientOptions(opts)
	return &VisitClient{
		saveSalesPerson: connect.NewClient[SaveSalesPersonRequest, SaveSalesPersonResponse](httpClient, baseURL+VisitSaveSalesPersonProcedure, o...),
		submitVisitLog:  connect.NewClient[SubmitVisitLogRequest, SubmitVisitLogResponse](httpClient, baseURL+VisitSubmitVisitLogProcedure, o...),
		resolvePeriod:   connect.NewClient[ResolvePeriodRequest, ResolvePeriodResponse](httpClient, baseURL+VisitResolvePeriodProcedure, o...),
	}
}

func (c *VisitClient) SaveSalesPerson(ctx context.Context, req *connect.Request[SaveSalesPersonRequest]) (*connect.Response[SaveSalesPersonResponse], error) {
	return c.saveSalesPerson.CallUnary(ctx, req)
}

func (c *VisitClient) SubmitVisitLog(ctx context.Context, req *connect.Request[SubmitVisitLogRequest]) (*connect.Response[SubmitVisitLogResponse], error) {
	return c.submitVisitLog.CallUnary(ctx, req)
}

func (c *VisitClient) ResolvePeriod(ctx context.Context, req *connect.Request[ResolvePeriodRequest]) (*connect.Response[ResolvePeriodResponse], error) {
	return c.resolvePeriod.CallUnary(ctx, req)
}

// AuthClient calls AuthService.
type AuthClient struct {
	register *connect.Client[RegisterRequest, AuthResponse]
	login    *connect.Client[LoginRequest, AuthResponse]
}

// NewAuthClient returns a client for the service at baseURL.
func NewAuthClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthClient {
	o := clientOptions(opts)
	return &AuthClient{
		register: connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthRegisterProcedure, o...),
		login:    connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthLoginProcedure, o...),
	}
}

func (c *AuthClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}
