package booking

type CreateBookingRequest struct {
	ServiceID       int64  `json:"service_id" binding:"required"`
	AreaSizeID      int64  `json:"area_size_id" binding:"required"`
	TimeSlotID      int64  `json:"time_slot_id" binding:"required"`
	BookingDate     string `json:"booking_date" binding:"required"`
	AddressDistrict string `json:"address_district" binding:"required"`
	AddressDetail   string `json:"address_detail" binding:"required"`
	ContactName     string `json:"contact_name" binding:"required"`
	ContactPhone    string `json:"contact_phone" binding:"required"`
	Notes           string `json:"notes"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
