package dto

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	Date        string `json:"appointment_date"`
	Time        string `json:"appointment_time"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name"`
}

type DashboardDTO struct {
	Today    int                  `json:"today"`
	Week     int                  `json:"week"`
	Pending  int64                `json:"pending"`
	Upcoming []AppointmentListDTO `json:"upcoming"`
}
