package api

// Service names.
const (
	LandedCostServiceName = "tnerp.v1.LandedCostService"
	SetupServiceName      = "tnerp.v1.SetupService"
	VisitServiceName      = "tnerp.v1.VisitService"
	AuthServiceName       = "tnerp.v1.AuthService"
)

// Procedure paths.
const (
	LandedCostDistributeProcedure   = "/" + LandedCostServiceName + "/Distribute"
	LandedCostApplyVoucherProcedure = "/" + LandedCostServiceName + "/ApplyVoucher"

	SetupCompleteProcedure             = "/" + SetupServiceName + "/SetupComplete"
	SetupQuickValidateProcedure        = "/" + SetupServiceName + "/QuickValidate"
	SetupFixWarehouseAccountsProcedure = "/" + SetupServiceName + "/FixWarehouseAccounts"
	SetupImportChartProcedure          = "/" + SetupServiceName + "/ImportChart"

	VisitSaveSalesPersonProcedure = "/" + VisitServiceName + "/SaveSalesPerson"
	VisitSubmitVisitLogProcedure  = "/" + VisitServiceName + "/SubmitVisitLog"
	VisitResolvePeriodProcedure   = "/" + VisitServiceName + "/ResolvePeriod"

	AuthRegisterProcedure = "/" + AuthServiceName + "/Register"
	AuthLoginProcedure    = "/" + AuthServiceName + "/Login"
)

// PublicProcedures can be called without an operator token.
var PublicProcedures = map[string]bool{
	AuthRegisterProcedure: true,
	AuthLoginProcedure:    true,
}
