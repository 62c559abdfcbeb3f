package approvalresolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hiring-flow-backend/models"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type fakeOrgDir struct {
	roleHolders map[string][]dbmodels.SpaceUser
	managers    map[string]*dbmodels.SpaceUser
}

func (f fakeOrgDir) ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error) {
	return f.roleHolders[roleKey+"/"+unitID], nil
}

func (f fakeOrgDir) GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	return f.managers[userID], nil
}

type fakeDelegations struct {
	backups map[string]string
}

func (f fakeDelegations) ActiveBackup(spaceID, userID string) (string, bool, error) {
	backupID, ok := f.backups[userID]
	return backupID, ok, nil
}

func makeUser(id string) dbmodels.SpaceUser {
	user := dbmodels.SpaceUser{}
	user.ID = id
	return user
}

func TestResolve(t *testing.T) {
	rqCtx := Context{
		SpaceID:          "space1",
		AuthorID:         "author",
		ManagementUnitID: "unit1",
	}

	t.Run("конкретный согласующий без замещения", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "user1"},
		}, rqCtx, "")
		require.Nil(t, err)
		require.Len(t, steps, 1)
		require.Equal(t, "user1", steps[0].ApproverID)
		require.Equal(t, "", steps[0].DelegatedFromID)
		require.False(t, steps[0].Skipped)
		require.Equal(t, models.AStepAwaiting, steps[0].Status)
	})

	t.Run("замещение подставляет замещающего с сохранением исходного", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{
			backups: map[string]string{"user1": "backup1"},
		})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "user1"},
			{StepOrder: 2, ApproverKind: models.ApproverSpecificUser, ApproverID: "user2"},
		}, rqCtx, "")
		require.Nil(t, err)
		require.Len(t, steps, 2)
		require.Equal(t, "backup1", steps[0].ApproverID)
		require.Equal(t, "user1", steps[0].DelegatedFromID)
		require.Equal(t, "user2", steps[1].ApproverID)
		require.Equal(t, "", steps[1].DelegatedFromID)
	})

	t.Run("роль в подразделении без держателя помечается пропущенной", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{
			roleHolders: map[string][]dbmodels.SpaceUser{
				"hrd/unit1": {makeUser("hrd1")},
			},
		}, fakeDelegations{})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverRoleInUnit, RoleKey: "hrd"},
			{StepOrder: 2, ApproverKind: models.ApproverRoleInUnit, RoleKey: "cfo"},
		}, rqCtx, "")
		require.Nil(t, err)
		require.Len(t, steps, 2)
		require.Equal(t, "hrd1", steps[0].ApproverID)
		require.False(t, steps[0].Skipped)
		require.True(t, steps[1].Skipped)
		require.Equal(t, "", steps[1].ApproverID)
	})

	t.Run("руководитель автора", func(t *testing.T) {
		manager := makeUser("boss")
		resolver := NewWithProviders(fakeOrgDir{
			managers: map[string]*dbmodels.SpaceUser{"author": &manager},
		}, fakeDelegations{})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverAuthorManager},
		}, rqCtx, "")
		require.Nil(t, err)
		require.Equal(t, "boss", steps[0].ApproverID)
	})

	t.Run("ни одного согласующего - ошибка разрешения", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{})
		_, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverRoleInUnit, RoleKey: "hrd"},
			{StepOrder: 2, ApproverKind: models.ApproverAuthorManager},
		}, rqCtx, "")
		require.NotNil(t, err)
		require.Equal(t, errs.KindResolution, errs.KindOf(err))
	})

	t.Run("явный согласующий первого этапа перекрывает правило", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 1, ApproverKind: models.ApproverRoleInUnit, RoleKey: "hrd"},
		}, rqCtx, "chosen")
		require.Nil(t, err)
		require.Equal(t, "chosen", steps[0].ApproverID)
		require.False(t, steps[0].Skipped)
	})

	t.Run("пустой шаблон дает пустую цепочку без ошибки", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{})
		steps, err := resolver.Resolve(nil, rqCtx, "")
		require.Nil(t, err)
		require.Len(t, steps, 0)
	})

	t.Run("порядок этапов шаблона сохраняется", func(t *testing.T) {
		resolver := NewWithProviders(fakeOrgDir{}, fakeDelegations{})
		steps, err := resolver.Resolve([]dbmodels.TemplateStep{
			{StepOrder: 3, ApproverKind: models.ApproverSpecificUser, ApproverID: "u3"},
			{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "u1"},
			{StepOrder: 2, ApproverKind: models.ApproverSpecificUser, ApproverID: "u2"},
		}, rqCtx, "")
		require.Nil(t, err)
		require.Equal(t, []int{1, 2, 3}, []int{steps[0].StepOrder, steps[1].StepOrder, steps[2].StepOrder})
		require.Equal(t, "u1", steps[0].ApproverID)
	})
}

func TestFirstEffectiveOrder(t *testing.T) {
	require.Equal(t, -1, FirstEffectiveOrder(nil))
	require.Equal(t, 2, FirstEffectiveOrder([]dbmodels.ApprovalStep{
		{StepOrder: 1, Skipped: true},
		{StepOrder: 2},
		{StepOrder: 3},
	}))
}
