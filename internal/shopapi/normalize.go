package shopapi

import "github.com/torqueboard/torqueboard/internal/report"

// normalizeOrder maps the wire aggregate onto the fixed report shape. All
// field-name variants are resolved here, once, so calculators never branch
// on schema revisions.
func normalizeOrder(dto repairOrderDTO) report.RepairOrder {
	order := report.RepairOrder{
		ID:              dto.ID,
		StatusID:        report.Status(dto.RepairOrderStatusID),
		VehicleID:       dto.VehicleID,
		CreatedAt:       dto.CreatedDate,
		PostedAt:        dto.PostedDate,
		UpdatedAt:       dto.UpdatedDate,
		AmountPaidCents: dto.AmountPaid,
		TotalSalesCents: dto.TotalSales,
		LaborSalesCents: dto.LaborSales,
		PartsSalesCents: dto.PartsSales,
	}
	order.Jobs = make([]report.Job, 0, len(dto.Jobs))
	for _, j := range dto.Jobs {
		order.Jobs = append(order.Jobs, normalizeJob(j))
	}
	return order
}

func normalizeJob(dto jobDTO) report.Job {
	job := report.Job{
		ID:                 dto.ID,
		Authorized:         dto.Authorized != nil && *dto.Authorized,
		AuthorizedAt:       dto.AuthorizedDate,
		Selected:           dto.Selected,
		TechnicianID:       dto.TechnicianID,
		ServiceWriterID:    firstID(dto.ServiceWriterID, dto.AdvisorID),
		LaborTotalCents:    dto.LaborTotal,
		PartsTotalCents:    dto.PartsTotal,
		SubletTotalCents:   dto.SubletTotal,
		FeeTotalCents:      dto.FeeTotal,
		DiscountTotalCents: dto.DiscountTotal,
		SubtotalCents:      dto.Subtotal,
	}
	job.Labor = make([]report.LaborLine, 0, len(dto.Labor))
	for _, l := range dto.Labor {
		job.Labor = append(job.Labor, report.LaborLine{
			Hours:        firstFloat(l.Hours, l.LaborHours),
			Complete:     firstBool(l.Complete, l.Completed),
			TechnicianID: l.TechnicianID,
		})
	}
	return job
}

func firstID(candidates ...*int64) *int64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func firstFloat(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

func firstBool(candidates ...*bool) bool {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return false
}
