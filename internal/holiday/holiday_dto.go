package holiday

const DateLayout = "2006-01-02"

type CreateHolidayRequest struct {
	Date      string `json:"date" binding:"required"`
	Name      string `json:"name" binding:"required,max=120"`
	Recurring bool   `json:"recurring"`
}

type HolidayResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		Date:      h.Date.UTC().Format(DateLayout),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}
