package store

import "botnology/internal/model"

// DefaultWorkspace returns the demo document shown on first launch.
func DefaultWorkspace() (*model.Workspace, error) {
	projects := []model.Project{
		{Name: "Anatomy & Physiology", Status: model.StatusActive, Updated: "2h ago"},
		{Name: "Calculus II", Status: model.StatusDraft, Updated: "yesterday"},
		{Name: "Organic Chemistry", Status: model.StatusNeedsLove, Updated: "3d ago"},
	}
	for i := range projects {
		id, err := NewID("proj")
		if err != nil {
			return nil, err
		}
		projects[i].ID = id
	}

	folders := []model.Folder{
		{Name: "Lecture Notes"},
		{Name: "Past Papers"},
		{Name: "Flashcards"},
	}
	for i := range folders {
		id, err := NewID("fold")
		if err != nil {
			return nil, err
		}
		folders[i].ID = id
	}

	return &model.Workspace{
		StudentName:     model.DefaultStudentName,
		Plan:            model.PlanFree,
		Projects:        projects,
		Folders:         folders,
		Files:           []model.FileRecord{},
		ActiveProjectID: model.IDPtr(projects[0].ID),
		ActiveFolderID:  model.IDPtr(folders[0].ID),
	}, nil
}
