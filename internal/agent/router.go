package agent

// Route picks the handler for the next step. It reads the state and never
// changes it.
func Route(s *RequirementState) Action {
	if s.ConversationComplete || s.Stage == StageDone {
		return ActionDone
	}

	switch a := s.NextAction; a {
	case ActionWaitForUser, ActionDone, ActionGreet, ActionChitchat, ActionUpdateState:
		return a

	case ActionGatherArea, ActionGatherLandType, ActionGatherSpecifics:
		// A gather tag only runs for its own stage, so a stage with missing
		// slots can never be skipped by a stale tag.
		if gatherStage(a) != s.Stage {
			return defaultAction(s)
		}
		return a

	case ActionConfirmRequirements, ActionSearchDatabase:
		if s.Stage < StageSpecifics || !s.requirementsComplete() {
			return defaultAction(s)
		}
		return a
	}

	return defaultAction(s)
}

// defaultAction is the gather handler for the current stage
func defaultAction(s *RequirementState) Action {
	if st, ok := s.firstIncompleteStage(); ok && st < s.Stage {
		return gatherAction(st)
	}
	switch s.Stage {
	case StageAreaAndSize, StageLandTypePreference, StageSpecifics:
		return gatherAction(s.Stage)
	case StageConfirming, StageSearching:
		return ActionConfirmRequirements
	}
	return ActionDone
}

func gatherAction(stage Stage) Action {
	switch stage {
	case StageAreaAndSize:
		return ActionGatherArea
	case StageLandTypePreference:
		return ActionGatherLandType
	}
	return ActionGatherSpecifics
}

func gatherStage(a Action) Stage {
	switch a {
	case ActionGatherArea:
		return StageAreaAndSize
	case ActionGatherLandType:
		return StageLandTypePreference
	}
	return StageSpecifics
}
