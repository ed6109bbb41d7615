package tickets

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"traveltix/internal/shared/config"
)

const codePrefix = "VER-"

// CodeGenerator produces and checks the verification code bound to a ticket id
type CodeGenerator interface {
	// Generate is deterministic in ticketID and the time bucket containing asOf
	Generate(ticketID string, asOf time.Time) string
	// Verify recomputes the code for the bucket declared in presented and
	// compares in constant time
	Verify(ticketID, presented string, now time.Time) bool
}

func bucketStart(t time.Time, bucket time.Duration) time.Time {
	if bucket <= 0 {
		return t.UTC().Truncate(time.Millisecond)
	}
	return t.UTC().Truncate(bucket)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// LegacyCodeGenerator reproduces VER-<ticketId>-<unixMillis>. Anyone who
// knows a ticket id can mint a valid code, so it is only used to keep
// already printed tickets scannable.
type LegacyCodeGenerator struct {
	// Bucket rounds the timestamp; zero keeps millisecond precision
	Bucket time.Duration
}

func (g LegacyCodeGenerator) Generate(ticketID string, asOf time.Time) string {
	return fmt.Sprintf("%s%s-%d", codePrefix, ticketID, bucketStart(asOf, g.Bucket).UnixMilli())
}

func (g LegacyCodeGenerator) Verify(ticketID, presented string, now time.Time) bool {
	rest, ok := strings.CutPrefix(presented, codePrefix+ticketID+"-")
	if !ok {
		return false
	}
	millis, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || millis < 0 {
		return false
	}
	declared := time.UnixMilli(millis)
	if declared.After(now) {
		return false
	}
	return constantTimeEqual(g.Generate(ticketID, declared), presented)
}

// HMACCodeGenerator emits VER-<ticketId>-<bucketUnix>-<mac> where mac is the
// first 128 bits of HMAC-SHA256(secret, ticketId || 0x00 || bucketUnix) in hex
type HMACCodeGenerator struct {
	secret []byte
	bucket time.Duration
	maxAge time.Duration
}

// NewHMACCodeGenerator requires a secret of at least 16 bytes. maxAge of zero
// disables expiry.
func NewHMACCodeGenerator(secret string, bucket, maxAge time.Duration) (*HMACCodeGenerator, error) {
	if len(secret) < 16 {
		return nil, ErrWeakSecret
	}
	if bucket <= 0 {
		bucket = 24 * time.Hour
	}
	return &HMACCodeGenerator{secret: []byte(secret), bucket: bucket, maxAge: maxAge}, nil
}

func (g *HMACCodeGenerator) Generate(ticketID string, asOf time.Time) string {
	bucket := bucketStart(asOf, g.bucket).Unix()
	return fmt.Sprintf("%s%s-%d-%s", codePrefix, ticketID, bucket, g.sign(ticketID, bucket))
}

func (g *HMACCodeGenerator) Verify(ticketID, presented string, now time.Time) bool {
	rest, ok := strings.CutPrefix(presented, codePrefix+ticketID+"-")
	if !ok {
		return false
	}
	bucketStr, mac, ok := strings.Cut(rest, "-")
	if !ok || mac == "" {
		return false
	}
	bucket, err := strconv.ParseInt(bucketStr, 10, 64)
	if err != nil || bucket < 0 {
		return false
	}

	declared := time.Unix(bucket, 0)
	if declared.After(now) {
		return false
	}
	if g.maxAge > 0 && now.Sub(declared) > g.maxAge {
		return false
	}
	return constantTimeEqual(g.Generate(ticketID, declared), presented)
}

func (g *HMACCodeGenerator) sign(ticketID string, bucket int64) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(ticketID))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(bucket, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// fallbackCodeGenerator issues with primary and accepts any generator's codes
type fallbackCodeGenerator struct {
	primary   CodeGenerator
	fallbacks []CodeGenerator
}

// WithFallback returns a generator that issues codes with primary but also
// accepts codes produced by fallbacks
func WithFallback(primary CodeGenerator, fallbacks ...CodeGenerator) CodeGenerator {
	if len(fallbacks) == 0 {
		return primary
	}
	return &fallbackCodeGenerator{primary: primary, fallbacks: fallbacks}
}

func (g *fallbackCodeGenerator) Generate(ticketID string, asOf time.Time) string {
	return g.primary.Generate(ticketID, asOf)
}

func (g *fallbackCodeGenerator) Verify(ticketID, presented string, now time.Time) bool {
	if g.primary.Verify(ticketID, presented, now) {
		return true
	}
	for _, fb := range g.fallbacks {
		if fb.Verify(ticketID, presented, now) {
			return true
		}
	}
	return false
}

// NewCodeGenerator builds the generator selected by configuration
func NewCodeGenerator(cfg config.TicketConfig) (CodeGenerator, error) {
	legacy := LegacyCodeGenerator{Bucket: cfg.LegacyCodeBucket}

	switch cfg.CodeScheme {
	case config.CodeSchemeLegacy:
		return legacy, nil
	case config.CodeSchemeHMAC, "":
		signed, err := NewHMACCodeGenerator(cfg.Secret, cfg.CodeBucket, cfg.CodeMaxAge)
		if err != nil {
			return nil, err
		}
		if cfg.AcceptLegacyCodes {
			return WithFallback(signed, legacy), nil
		}
		return signed, nil
	default:
		return nil, fmt.Errorf("unknown ticket code scheme %q", cfg.CodeScheme)
	}
}
