package submission

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/esteham/eland-portal/internal/auth"
	recmocks "github.com/esteham/eland-portal/internal/records/mocks"
	recmodels "github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/internal/submission/mocks"
	"github.com/esteham/eland-portal/internal/submission/models"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

type WorkflowSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	records   *recmocks.MockLookup
	submitter *mocks.MockSubmitter
	workflow  *Workflow
	cleared   int
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.records = recmocks.NewMockLookup(s.ctrl)
	s.submitter = mocks.NewMockSubmitter(s.ctrl)
	s.cleared = 0
	s.workflow = NewWorkflow(Config{
		Records:     s.records,
		Gateway:     NewMockGateway(),
		Submitter:   s.submitter,
		Logger:      slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		FeeAmount:   100,
		OnSubmitted: func() { s.cleared++ },
	})
}

func (s *WorkflowSuite) dagLeaf() recmodels.LeafRecord {
	return recmodels.LeafRecord{
		ID:           "dag-101",
		Kind:         recmodels.KindDag,
		DisplayKey:   "45",
		SheetID:      "sheet-1",
		SurveyTypeID: "sheet-1-CS",
	}
}

func (s *WorkflowSuite) dagDetail() *recmodels.LeafDetail {
	return &recmodels.LeafDetail{Dag: &recmodels.DagDetail{
		DagNumber:     "45",
		KhatianNumber: "210",
		OwnerName:     "Abdul Karim",
	}}
}

func (s *WorkflowSuite) actorCtx() context.Context {
	return auth.WithActor(context.Background(), auth.Actor{ID: "citizen-1", Name: "Rahim"})
}

// selectLeaf drives the workflow to DetailSelected.
func (s *WorkflowSuite) selectLeaf() {
	leaf := s.dagLeaf()
	s.records.EXPECT().Detail(gomock.Any(), leaf.ID, leaf.Kind).Return(s.dagDetail(), nil)
	s.Require().NoError(s.workflow.SelectLeaf(context.Background(), leaf))
	s.Require().Equal(models.StateDetailSelected, s.workflow.State())
}

// toCredentialEntry drives the workflow to CredentialEntry via mobile wallet.
func (s *WorkflowSuite) toCredentialEntry() {
	s.selectLeaf()
	s.Require().NoError(s.workflow.RequestSubmission(s.actorCtx()))
	s.Require().NoError(s.workflow.ChooseMethod(models.MethodMobileWallet))
	s.Require().Equal(models.StateCredentialEntry, s.workflow.State())
}

func (s *WorkflowSuite) TestSelectLeafLoadsDetail() {
	s.selectLeaf()

	leaf := s.workflow.Leaf()
	s.Require().NotNil(leaf)
	s.Require().NotNil(leaf.Detail)
	s.Equal("45", leaf.Detail.Dag.DagNumber)
}

func (s *WorkflowSuite) TestSelectLeafDetailFailure() {
	leaf := s.dagLeaf()
	s.records.EXPECT().Detail(gomock.Any(), leaf.ID, leaf.Kind).
		Return(nil, fmt.Errorf("registry timeout"))

	err := s.workflow.SelectLeaf(context.Background(), leaf)
	s.Require().Error(err)
	s.Equal(domainerrors.CodeUnavailable, domainerrors.CodeOf(err))
	s.Equal(models.StateBrowsing, s.workflow.State())
	s.Nil(s.workflow.Leaf())
}

func (s *WorkflowSuite) TestRequestSubmissionWithoutActorAbortsToBrowsing() {
	s.selectLeaf()

	err := s.workflow.RequestSubmission(context.Background())
	s.Require().Error(err)
	s.Equal(domainerrors.CodeUnauthorized, domainerrors.CodeOf(err))
	s.Equal(models.StateBrowsing, s.workflow.State())
	s.Nil(s.workflow.Leaf(), "the pending selection does not survive a sign-in bounce")
}

func (s *WorkflowSuite) TestIllegalTransitionsAreConflicts() {
	s.Run("request before selecting", func() {
		err := s.workflow.RequestSubmission(s.actorCtx())
		s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
	})

	s.Run("method before requesting", func() {
		err := s.workflow.ChooseMethod(models.MethodCard)
		s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
	})

	s.Run("credentials before a method", func() {
		_, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{})
		s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
	})

	s.Run("retry with nothing rejected", func() {
		err := s.workflow.Retry(context.Background())
		s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
	})

	s.Run("cancel while browsing", func() {
		err := s.workflow.Cancel()
		s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
	})
}

func (s *WorkflowSuite) TestUnsupportedMethodRejected() {
	s.selectLeaf()
	s.Require().NoError(s.workflow.RequestSubmission(s.actorCtx()))

	err := s.workflow.ChooseMethod("cheque")
	s.Require().Error(err)
	s.Equal(domainerrors.CodeBadRequest, domainerrors.CodeOf(err))
	s.Equal(models.StateMethodSelection, s.workflow.State())
}

func (s *WorkflowSuite) TestWalletValidationFailureIsFieldScoped() {
	s.toCredentialEntry()

	errs, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "12345",
		PIN:   "1234",
	})
	s.Require().NoError(err)
	s.Require().Contains(errs, "phone")
	s.NotContains(errs, "pin")
	s.Equal(models.StateCredentialEntry, s.workflow.State(), "a format failure never advances")
	s.Equal(errs, s.workflow.FieldErrors())
}

func (s *WorkflowSuite) TestCardValidation() {
	s.selectLeaf()
	s.Require().NoError(s.workflow.RequestSubmission(s.actorCtx()))
	s.Require().NoError(s.workflow.ChooseMethod(models.MethodCard))

	errs, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		CardNumber: "41111111111111234", // over 13 digits
		Expiry:     "never",             // accepted as entered
		CVV:        "12",
	})
	s.Require().NoError(err)
	s.Contains(errs, "card_number")
	s.Contains(errs, "cvv")
	s.NotContains(errs, "expiry")
}

func (s *WorkflowSuite) TestSuccessfulSubmissionBuildsDraft() {
	s.toCredentialEntry()

	var seen models.ApplicationDraft
	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
			seen = draft
			return models.Application{ID: "app-1", Draft: draft}, nil
		})

	errs, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01712345678",
		PIN:   "1234",
	})
	s.Require().NoError(err)
	s.Empty(errs)

	s.Equal("dag-101", seen.LeafID)
	s.Equal(recmodels.KindDag, seen.LeafKind)
	s.Equal(int64(100), seen.FeeAmount)
	s.Equal(models.MethodMobileWallet, seen.PaymentMethod)
	s.Equal("01712345678", seen.PayerIdentifier)
	s.NotEmpty(seen.TransactionID)
	s.Equal("citizen-1", seen.ApplicantID)

	s.Equal(models.StateSubmitted, s.workflow.State())
	s.Nil(s.workflow.Leaf(), "the leaf selection is released on success")
	s.Equal(1, s.cleared, "the owning session is told to drop the leaf")
	app := s.workflow.Application()
	s.Require().NotNil(app)
	s.Equal("app-1", app.ID)
}

func (s *WorkflowSuite) TestRejectionPreservesCredentialsForRetry() {
	s.toCredentialEntry()

	gomock.InOrder(
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(models.Application{}, fmt.Errorf("insufficient balance")),
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
				s.Equal("01712345678", draft.PayerIdentifier, "retry reuses the entered credentials")
				return models.Application{ID: "app-2", Draft: draft}, nil
			}),
	)

	_, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01712345678",
		PIN:   "1234",
	})
	s.Require().Error(err)
	s.Equal(domainerrors.CodeUnavailable, domainerrors.CodeOf(err))
	s.Equal(models.StateRejected, s.workflow.State())
	s.Equal("insufficient balance", s.workflow.LastError(), "the service message is surfaced verbatim")

	s.Require().NoError(s.workflow.Retry(context.Background()))
	s.Equal(models.StateSubmitted, s.workflow.State())
	s.Empty(s.workflow.LastError())
}

func (s *WorkflowSuite) TestFreshTransactionIDPerAttempt() {
	s.toCredentialEntry()

	var first, second string
	gomock.InOrder(
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
				first = draft.TransactionID
				return models.Application{}, fmt.Errorf("gateway busy")
			}),
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
				second = draft.TransactionID
				return models.Application{ID: "app-3", Draft: draft}, nil
			}),
	)

	_, _ = s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01712345678",
		PIN:   "1234",
	})
	s.Require().NoError(s.workflow.Retry(context.Background()))

	s.NotEmpty(first)
	s.NotEmpty(second)
	s.NotEqual(first, second)
}

func (s *WorkflowSuite) TestCorrectedCredentialsAfterRejection() {
	s.toCredentialEntry()

	gomock.InOrder(
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(models.Application{}, fmt.Errorf("wallet suspended")),
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
				s.Equal("01898765432", draft.PayerIdentifier)
				return models.Application{ID: "app-4", Draft: draft}, nil
			}),
	)

	_, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01712345678",
		PIN:   "1234",
	})
	s.Require().Error(err)

	// rejected state also accepts freshly corrected credentials
	errs, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01898765432",
		PIN:   "4321",
	})
	s.Require().NoError(err)
	s.Empty(errs)
	s.Equal(models.StateSubmitted, s.workflow.State())
}

func (s *WorkflowSuite) TestCancelReturnsToDetail() {
	s.toCredentialEntry()

	s.Require().NoError(s.workflow.Cancel())
	s.Equal(models.StateDetailSelected, s.workflow.State())
	s.NotNil(s.workflow.Leaf(), "cancel keeps the selected record")
	s.Empty(s.workflow.FieldErrors())
}

func (s *WorkflowSuite) TestSelectLeafBlockedMidPayment() {
	s.toCredentialEntry()

	err := s.workflow.SelectLeaf(context.Background(), s.dagLeaf())
	s.Require().Error(err)
	s.Equal(domainerrors.CodeConflict, domainerrors.CodeOf(err))
}

func (s *WorkflowSuite) TestNewCycleAfterSubmission() {
	s.toCredentialEntry()
	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(models.Application{ID: "app-5"}, nil)
	_, err := s.workflow.SubmitCredentials(context.Background(), models.Credentials{
		Phone: "01712345678",
		PIN:   "1234",
	})
	s.Require().NoError(err)
	s.Require().Equal(models.StateSubmitted, s.workflow.State())

	// selecting another record starts the next cycle directly
	s.selectLeaf()
}

func (s *WorkflowSuite) TestMockGatewayAuthorizeFillsAttempt() {
	gateway := NewMockGateway()

	wallet := &models.PaymentAttempt{
		Method:      models.MethodMobileWallet,
		Credentials: models.Credentials{Phone: "01712345678", PIN: "1234"},
		Amount:      100,
	}
	s.Require().NoError(gateway.Authorize(context.Background(), wallet))
	s.Equal("01712345678", wallet.PayerIdentifier)
	s.NotEmpty(wallet.TransactionID)

	card := &models.PaymentAttempt{
		Method:      models.MethodCard,
		Credentials: models.Credentials{CardNumber: "4111111111111", CVV: "123"},
		Amount:      100,
	}
	s.Require().NoError(gateway.Authorize(context.Background(), card))
	s.Equal("4111111111111", card.PayerIdentifier)
}
