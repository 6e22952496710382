package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_registrations_submitted_total",
		Help: "Pending course registrations submitted, by account kind.",
	}, []string{"kind"})

	RegistrationsApproved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_registrations_approved_total",
		Help: "Pending course registrations approved by an admin, by account kind.",
	}, []string{"kind"})

	ReferralRewards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sankalp_referral_rewards_total",
		Help: "Referral rewards credited on approval.",
	})

	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_otp_issued_total",
		Help: "One-time codes issued, by purpose.",
	}, []string{"purpose"})

	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_otp_verifications_total",
		Help: "One-time code checks, by purpose and result.",
	}, []string{"purpose", "result"})

	VideoTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_video_tokens_total",
		Help: "Video token issuance and verification outcomes.",
	}, []string{"op", "result"})

	CertificatesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankalp_certificates_generated_total",
		Help: "Certificate render requests, by result.",
	}, []string{"result"})
)
