package domain

// ReferralStageName представляет этап реферальной программы
type ReferralStageName string

const (
	ReferralStagePartner    ReferralStageName = "partner"
	ReferralStageAmbassador ReferralStageName = "ambassador"
)

// ReferralStage представляет ступень реферальной программы
type ReferralStage struct {
	Name         ReferralStageName `json:"name"`
	MinInvited   int               `json:"min_invited"`
	Percent      float64           `json:"percent"`
	Withdrawable bool              `json:"withdrawable"`
}

// ReferralStages содержит ступени программы, отсортированные по порогу
// приглашенных. До 10 конверсий заработок доступен только как внутренний
// кредит магазина, с 10 и выше становится выводимым.
var ReferralStages = []ReferralStage{
	{Name: ReferralStagePartner, MinInvited: 0, Percent: 5, Withdrawable: false},
	{Name: ReferralStageAmbassador, MinInvited: 10, Percent: 10, Withdrawable: true},
	{Name: ReferralStageAmbassador, MinInvited: 25, Percent: 12, Withdrawable: true},
	{Name: ReferralStageAmbassador, MinInvited: 50, Percent: 15, Withdrawable: true},
}

// ReferralStageFor возвращает ступень по количеству конверсий
func ReferralStageFor(invited int) ReferralStage {
	stage := ReferralStages[0]
	for _, s := range ReferralStages {
		if invited >= s.MinInvited {
			stage = s
		}
	}
	return stage
}

// NextReferralStageFor возвращает ближайшую следующую ступень, либо nil
func NextReferralStageFor(invited int) *ReferralStage {
	for i := range ReferralStages {
		if ReferralStages[i].MinInvited > invited {
			return &ReferralStages[i]
		}
	}
	return nil
}

// ReferralInfo представляет состояние реферера для клиента
type ReferralInfo struct {
	RefCode      string         `json:"ref_code"`
	Stage        ReferralStage  `json:"stage"`
	NextStage    *ReferralStage `json:"next_stage,omitempty"`
	InvitedCount int            `json:"invited_count"`
	BalanceTotal float64        `json:"balance_total"`
}
