package messages

import "encoding/xml"

// DeriveRequest asks a worker for a password. Zero Workers and an empty
// Algorithm select the worker's configured defaults.
type DeriveRequest struct {
	XMLName     xml.Name `xml:"DeriveRequest" json:"-"`
	RequestId   string   `xml:"RequestId" json:"requestId"`
	Seed        string   `xml:"Seed" json:"seed"`
	Length      uint64   `xml:"Length" json:"length"`
	Repetitions uint64   `xml:"Repetitions" json:"repetitions"`
	Workers     uint64   `xml:"Workers,omitempty" json:"workers,omitempty"`
	Algorithm   string   `xml:"Algorithm,omitempty" json:"algorithm,omitempty"`
}

// DeriveResponse carries either Password or Error.
type DeriveResponse struct {
	XMLName   xml.Name `xml:"DeriveResponse" json:"-"`
	Id        string   `xml:"Id" json:"id"`
	RequestId string   `xml:"RequestId" json:"requestId"`
	Password  string   `xml:"Password,omitempty" json:"password,omitempty"`
	Error     string   `xml:"Error,omitempty" json:"error,omitempty"`
}
