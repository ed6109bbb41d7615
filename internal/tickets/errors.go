package tickets

import "errors"

// Sentinel errors, one per failure class. Result types expose them through Err.
var (
	ErrMalformedPayload     = errors.New("malformed ticket payload")
	ErrMissingRequiredField = errors.New("ticket payload missing required field")
	ErrBookingMismatch      = errors.New("ticket belongs to a different booking")
	ErrUnknownTicket        = errors.New("unknown ticket")
	ErrForbidden            = errors.New("caller may not act on this ticket")
	ErrCodeMismatch         = errors.New("verification code mismatch")
	ErrDetailsMismatch      = errors.New("ticket details do not match booking")
	ErrAlreadyRedeemed      = errors.New("ticket already redeemed")
	ErrNotRedeemable        = errors.New("ticket is not redeemable")
	ErrNetwork              = errors.New("booking store unavailable")
	ErrWeakSecret           = errors.New("ticket secret must be at least 16 bytes")
)

// Outcome is the top level verdict of a scan
type Outcome string

const (
	OutcomeValid        Outcome = "VALID"
	OutcomeInvalid      Outcome = "INVALID"
	OutcomeForbidden    Outcome = "FORBIDDEN"
	OutcomeNetworkError Outcome = "NETWORK_ERROR"
)

// Reason qualifies an INVALID verdict
type Reason string

const (
	ReasonMalformedPayload     Reason = "MALFORMED_PAYLOAD"
	ReasonMissingRequiredField Reason = "MISSING_REQUIRED_FIELD"
	ReasonBookingMismatch      Reason = "BOOKING_MISMATCH"
	ReasonUnknownTicket        Reason = "UNKNOWN_TICKET"
	ReasonCodeMismatch         Reason = "CODE_MISMATCH"
	ReasonDetailsMismatch      Reason = "DETAILS_MISMATCH"
	ReasonNotRedeemable        Reason = "NOT_REDEEMABLE"
)

var reasonErrors = map[Reason]error{
	ReasonMalformedPayload:     ErrMalformedPayload,
	ReasonMissingRequiredField: ErrMissingRequiredField,
	ReasonBookingMismatch:      ErrBookingMismatch,
	ReasonUnknownTicket:        ErrUnknownTicket,
	ReasonCodeMismatch:         ErrCodeMismatch,
	ReasonDetailsMismatch:      ErrDetailsMismatch,
	ReasonNotRedeemable:        ErrNotRedeemable,
}

// RedeemOutcome is the verdict of a redemption attempt
type RedeemOutcome string

const (
	RedeemOutcomeRedeemed        RedeemOutcome = "REDEEMED"
	RedeemOutcomeAlreadyRedeemed RedeemOutcome = "ALREADY_REDEEMED"
	RedeemOutcomeNotRedeemable   RedeemOutcome = "NOT_REDEEMABLE"
	RedeemOutcomeUnknownTicket   RedeemOutcome = "UNKNOWN_TICKET"
	RedeemOutcomeForbidden       RedeemOutcome = "FORBIDDEN"
	RedeemOutcomeNetworkError    RedeemOutcome = "NETWORK_ERROR"
)
