package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&User{},
		&Zone{},
		&Address{},
		&Client{},
		&Appointment{},
		&AppointmentEvent{},
		&NotificationLog{},
	}
}
