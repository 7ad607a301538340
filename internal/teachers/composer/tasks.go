package composer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trsync/internal/matching"
	registrymodels "trsync/internal/registry/models"
)

// Review task categories.
const (
	CategoryPotentialDuplicate     = "potential_duplicate"
	CategoryIttProviderMismatch    = "itt_provider_mismatch"
	CategoryMultipleQtsRecords     = "multiple_qts_records"
	CategoryMultipleQualifications = "multiple_qualifications"
)

var fieldLabels = map[matching.Field]string{
	matching.FieldFirstName:  "first name",
	matching.FieldMiddleName: "middle name",
	matching.FieldLastName:   "last name",
	matching.FieldBirthDate:  "date of birth",
	matching.FieldNino:       "national insurance number",
	matching.FieldEmail:      "email",
}

// FlagDuplicate adds the review task raised instead of TRN allocation when
// the new contact matches an existing one.
func (b *Batch) FlagDuplicate(contactID uuid.UUID, candidate matching.Candidate, due time.Time) uuid.UUID {
	candidateID := candidate.Contact.ID
	return b.AddReviewTask(registrymodels.ReviewTask{
		RegardingID:          contactID,
		PotentialDuplicateID: &candidateID,
		Category:             CategoryPotentialDuplicate,
		Subject:              "Potential duplicate teacher record",
		Description:          DuplicateDescription(candidate),
		ScheduledEnd:         &due,
	})
}

// DuplicateDescription lists the matched identity fields and any flags on
// the existing record, one per line.
func DuplicateDescription(candidate matching.Candidate) string {
	var sb strings.Builder
	sb.WriteString("Potential duplicate\nMatched on")
	for _, f := range candidate.MatchedFields {
		label, ok := fieldLabels[f]
		if !ok {
			label = string(f)
		}
		fmt.Fprintf(&sb, "\n  - %s", label)
	}
	if candidate.HasActiveSanctions {
		sb.WriteString("\nExisting record has active sanctions")
	}
	if candidate.HasQtsDate {
		sb.WriteString("\nExisting record has a QTS date")
	}
	if candidate.HasEytsDate {
		sb.WriteString("\nExisting record has an EYTS date")
	}
	return sb.String()
}

// FlagForReview adds a review task in category about the teacher contactID.
func (b *Batch) FlagForReview(contactID uuid.UUID, category, subject, description string, due time.Time) uuid.UUID {
	return b.AddReviewTask(registrymodels.ReviewTask{
		RegardingID:  contactID,
		Category:     category,
		Subject:      subject,
		Description:  description,
		ScheduledEnd: &due,
	})
}
