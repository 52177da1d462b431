package schedule

// Appointment is a single booked slot. The JSON field names are the de facto
// schema shared with the document store and must stay stable.
type Appointment struct {
	ID           string      `json:"id"`
	SalesPerson  string      `json:"salesPerson"`
	Setter       string      `json:"setter"`
	ClientName   string      `json:"clientName"`
	Phone        string      `json:"phone"`
	Notes        string      `json:"notes,omitempty"`
	Time         TimeOfDay   `json:"time"`
	Date         Date        `json:"date"`
	Status       Status      `json:"status"`
	Payment      PaymentType `json:"paymentType,omitempty"`
	InitialPitch PitchTier   `json:"initialPitch,omitempty"`
}

// Revenue returns the appointment's payment amount, zero when unpaid.
func (a Appointment) Revenue() int {
	return a.Payment.Amount()
}
