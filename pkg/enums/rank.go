package enums

import "fmt"

// Rank is the business priority tag attached to a call request.
type Rank string

const (
	RankMissedInbound  Rank = "missed_inbound"
	RankSMSResponse    Rank = "sms_response"
	RankProspectC      Rank = "prospect_c"
	RankProspectB      Rank = "prospect_b"
	RankProspectA      Rank = "prospect_a"
	RankProspectS      Rank = "prospect_s"
	RankProspectLL     Rank = "prospect_ll"
	RankProspectCAway  Rank = "prospect_c_away"
	RankProspectBAway  Rank = "prospect_b_away"
	RankProspectAAway  Rank = "prospect_a_away"
	RankProspectSAway  Rank = "prospect_s_away"
	RankCatch          Rank = "catch"
	RankOwnerConfirm   Rank = "owner_confirm"
	RankShared         Rank = "shared"
	RankFollowUp       Rank = "follow_up"
	RankOnboarding     Rank = "onboarding"
	RankToss           Rank = "toss"
	RankComplaint      Rank = "complaint"
	RankPrecheckFiber  Rank = "precheck_fiber"
	RankPrecheckAir    Rank = "precheck_air"
	RankPrecheckRental Rank = "precheck_rental"
	RankImportRequest  Rank = "import_request"
)

var precheckRanks = []Rank{
	RankPrecheckFiber,
	RankPrecheckAir,
	RankPrecheckRental,
	RankImportRequest,
}

var validRanks = []Rank{
	RankMissedInbound,
	RankSMSResponse,
	RankProspectC,
	RankProspectB,
	RankProspectA,
	RankProspectS,
	RankProspectLL,
	RankProspectCAway,
	RankProspectBAway,
	RankProspectAAway,
	RankProspectSAway,
	RankCatch,
	RankOwnerConfirm,
	RankShared,
	RankFollowUp,
	RankOnboarding,
	RankToss,
	RankComplaint,
	RankPrecheckFiber,
	RankPrecheckAir,
	RankPrecheckRental,
	RankImportRequest,
}

func (r Rank) IsValid() bool {
	for _, candidate := range validRanks {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsPrecheck reports whether the rank belongs to the secondary-review workflow.
func (r Rank) IsPrecheck() bool {
	for _, candidate := range precheckRanks {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseRank(value string) (Rank, error) {
	for _, candidate := range validRanks {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rank %q", value)
}
