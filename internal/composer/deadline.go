package composer

// DeadlineLeadDays is how long before the event the sponsorship deadline
// defaults to.
const DeadlineLeadDays = 3

// DeriveDefaultDeadline returns the cooperationReturn value to use after
// eventDate changed. A value the user already entered is kept, as is the
// current value when eventDate is not a date. The bool is true when a new
// default was derived.
func DeriveDefaultDeadline(eventDate, current string) (string, bool) {
	if filled(current) {
		return current, false
	}
	start, err := ParseDate(eventDate)
	if err != nil {
		return current, false
	}
	return start.AddDate(0, 0, -DeadlineLeadDays).Format(DateLayout), true
}
