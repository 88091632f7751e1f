package service

import (
	"payment-orchestrator/pkg/idgen"
)

// HMACSignatureService implements ports.SignatureService using
// HMAC-SHA256, shared by outbound webhook signing and inbound provider
// webhook signature verification.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes HMAC-SHA256(payload, secretKey), returned as lowercase hex.
func (s *HMACSignatureService) Sign(secretKey string, payload []byte) string {
	return idgen.HMACSHA256Hex(payload, []byte(secretKey))
}

// Verify checks signature against HMAC-SHA256(payload, secretKey) in
// constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload []byte, signature string) bool {
	return idgen.VerifyHMAC(payload, []byte(secretKey), signature)
}
