package event

import "time"

type LoanApprovedEvent struct {
	LoanID          int64     `json:"loanId"`
	LoanRef         string    `json:"loanRef"`
	UserID          string    `json:"userId"`
	Principal       float64   `json:"principal"`
	DisbursementRef string    `json:"disbursementRef"`
	ApprovedBy      string    `json:"approvedBy"`
	Timestamp       time.Time `json:"timestamp"`
}

type LoanRejectedEvent struct {
	LoanID     int64     `json:"loanId"`
	LoanRef    string    `json:"loanRef"`
	UserID     string    `json:"userId"`
	Reason     string    `json:"reason"`
	RejectedBy string    `json:"rejectedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

type RepaymentRecordedEvent struct {
	LoanID         int64     `json:"loanId"`
	LoanRef        string    `json:"loanRef"`
	RepaymentID    int64     `json:"repaymentId"`
	Amount         float64   `json:"amount"`
	TransactionRef string    `json:"transactionRef"`
	NewBalance     float64   `json:"newBalance"`
	LoanPaidOff    bool      `json:"loanPaidOff"`
	Timestamp      time.Time `json:"timestamp"`
}

type LoanOverdueEvent struct {
	LoanID     int64     `json:"loanId"`
	LoanRef    string    `json:"loanRef"`
	UserID     string    `json:"userId"`
	BalanceDue float64   `json:"balanceDue"`
	DueDate    time.Time `json:"dueDate"`
	Timestamp  time.Time `json:"timestamp"`
}
