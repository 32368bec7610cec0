package services

import (
	"errors"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// IsUserFacing reports whether err is caused by user input or configuration
// and can be shown to the user as-is
func IsUserFacing(err error) bool {
	var (
		userInput     *shared.UserInputError
		policy        *shared.PolicyUnsetError
		validation    *shared.ValidationError
		external      *shared.ExternalDataUnavailableError
		planNotFound  *industry.ErrPlanNotFound
		planExists    *industry.ErrPlanExists
		planLimit     *industry.ErrPlanLimitReached
		lineIndex     *industry.ErrLineIndexOutOfRange
		quantity      *industry.ErrInvalidQuantity
		unknownItem   *industry.ErrUnknownItem
		matcher       *industry.ErrMatcherNotFound
		kindMismatch  *industry.ErrMatcherKindMismatch
		invalidKind   *industry.ErrInvalidMatcherKind
		invalidKey    *industry.ErrInvalidRuleKey
		rigLevel      *industry.ErrInvalidRigLevel
		structure     *industry.ErrStructureNotFound
		noContainers  *industry.ErrNoProductionContainers
		circularInput *industry.ErrCircularDependency
	)
	return errors.As(err, &userInput) ||
		errors.As(err, &policy) ||
		errors.As(err, &validation) ||
		errors.As(err, &external) ||
		errors.As(err, &planNotFound) ||
		errors.As(err, &planExists) ||
		errors.As(err, &planLimit) ||
		errors.As(err, &lineIndex) ||
		errors.As(err, &quantity) ||
		errors.As(err, &unknownItem) ||
		errors.As(err, &matcher) ||
		errors.As(err, &kindMismatch) ||
		errors.As(err, &invalidKind) ||
		errors.As(err, &invalidKey) ||
		errors.As(err, &rigLevel) ||
		errors.As(err, &structure) ||
		errors.As(err, &noContainers) ||
		errors.As(err, &circularInput)
}

// IsNotFound reports whether err means a named entity does not exist
func IsNotFound(err error) bool {
	var (
		planNotFound *industry.ErrPlanNotFound
		matcher      *industry.ErrMatcherNotFound
		structure    *industry.ErrStructureNotFound
	)
	return errors.As(err, &planNotFound) || errors.As(err, &matcher) || errors.As(err, &structure)
}
