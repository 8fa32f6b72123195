// Package shopapi adapts the shop-management HTTP API to the report core's
// RecordSource contract.
package shopapi

import "time"

// pageEnvelope is the Spring-style pagination envelope returned by the
// repair-order listing endpoint.
type pageEnvelope struct {
	Content    []repairOrderDTO `json:"content"`
	TotalPages int              `json:"totalPages"`
}

// repairOrderDTO mirrors the upstream aggregate as received on the wire.
// Monetary fields arrive in integer cents.
type repairOrderDTO struct {
	ID                  int64      `json:"id"`
	RepairOrderStatusID int        `json:"repairOrderStatusId"`
	VehicleID           *int64     `json:"vehicleId"`
	CreatedDate         *time.Time `json:"createdDate"`
	PostedDate          *time.Time `json:"postedDate"`
	UpdatedDate         *time.Time `json:"updatedDate"`
	AmountPaid          int64      `json:"amountPaid"`
	TotalSales          int64      `json:"totalSales"`
	LaborSales          int64      `json:"laborSales"`
	PartsSales          int64      `json:"partsSales"`
	Jobs                []jobDTO   `json:"jobs"`
}

type jobDTO struct {
	ID             int64      `json:"id"`
	Authorized     *bool      `json:"authorized"`
	AuthorizedDate *time.Time `json:"authorizedDate"`
	Selected       bool       `json:"selected"`
	TechnicianID   *int64     `json:"technicianId"`
	// Older API revisions spell the writer field "advisorId".
	ServiceWriterID *int64     `json:"serviceWriterId"`
	AdvisorID       *int64     `json:"advisorId"`
	LaborTotal      int64      `json:"laborTotal"`
	PartsTotal      int64      `json:"partsTotal"`
	SubletTotal     int64      `json:"subletTotal"`
	FeeTotal        int64      `json:"feeTotal"`
	DiscountTotal   int64      `json:"discountTotal"`
	Subtotal        int64      `json:"subtotal"`
	Labor           []laborDTO `json:"labor"`
}

type laborDTO struct {
	// Hours appears as "hours" or "laborHours" depending on API revision.
	Hours      *float64 `json:"hours"`
	LaborHours *float64 `json:"laborHours"`
	// Complete appears as "complete" or "completed".
	Complete     *bool  `json:"complete"`
	Completed    *bool  `json:"completed"`
	TechnicianID *int64 `json:"technicianId"`
}
