package leavebalance

type ProvisionBalanceRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required,uuid"`
	Year            int    `json:"year" binding:"required"`
	EntitlementDays *int   `json:"entitlement_days" binding:"required"`
}

type BalanceResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Year            int    `json:"year"`
	EntitlementDays int    `json:"entitlement_days"`
	UsedDays        int    `json:"used_days"`
	ReservedDays    int    `json:"reserved_days"`
	AvailableDays   int    `json:"available_days"`
	Version         int    `json:"version"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:              b.ID.String(),
		EmployeeID:      b.EmployeeID.String(),
		Year:            b.Year,
		EntitlementDays: b.EntitlementDays,
		UsedDays:        b.UsedDays,
		ReservedDays:    b.ReservedDays,
		AvailableDays:   b.AvailableDays(),
		Version:         b.Version,
	}
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
