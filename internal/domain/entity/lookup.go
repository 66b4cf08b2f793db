package entity

// Address is an agency address
type Address struct {
	ID       string `json:"id"`
	City     string `json:"city"`
	Barangay string `json:"barangay,omitempty"`
	Street   string `json:"street,omitempty"`
}

// Agency is an implementing or cooperating agency
type Agency struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Addresses []Address `json:"agency_address,omitempty"`
}

// Lookups bundles the reference tables used by submission forms
type Lookups struct {
	Agencies            []Agency `json:"agencies"`
	CooperatingAgencies []Agency `json:"cooperating_agencies"`
	Departments         []Ref    `json:"departments"`
	Disciplines         []Ref    `json:"disciplines"`
	Sectors             []Ref    `json:"sectors"`
	Tags                []Ref    `json:"tags"`
	Priorities          []Ref    `json:"priorities"`
	Stations            []Ref    `json:"stations"`
	Commodities         []Ref    `json:"commodities"`
}

// Account is a user listed by role, e.g. an R&D staff member or evaluator
type Account struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Departments []Ref  `json:"departments,omitempty"`
}
