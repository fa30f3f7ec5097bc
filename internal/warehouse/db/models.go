package db

import "database/sql"

type Member struct {
	MemberID  int64
	Slug      string
	Name      string
	State     string
	District  string
	Hometown  string
	Party     string
	Office    string
	Phone     string
	Website   string
	Email     string
	Headshot  string
	C1        string
	C1link    string
	C2        string
	C2link    string
	C3        string
	C3link    string
	C4        string
	C4link    string
	Sc1       string
	Sc1link   string
	Sc2       string
	Sc2link   string
	Sc3       string
	Sc3link   string
	Sc4       string
	Sc4link   string
	ScrapedAt string
}

type Staff struct {
	MemberID int64
	Name     string
	State    string
	District string
	Office   string
	Phone    string
	Website  string
}

type TravelReport struct {
	ID             int64
	NaturalKey     string
	DocID          string
	MemberID       sql.NullInt64
	ReportYear     int64
	FilingType     string
	FilerFirst     string
	FilerLast      string
	MemberName     string
	MemberState    string
	MemberDistrict string
	DestCity       string
	DestState      string
	DepartDate     string
	ReturnDate     string
	TravelSponsor  string
	ScrapedAt      string
}
