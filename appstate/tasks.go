package appstate

import (
	"context"
	"slices"
	"strings"
)

func taskID(t Task) string { return t.ID }

func (s *State) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// AddTask insere a tarefa no topo da lista.
func (s *State) AddTask(title, category string) (Task, error) {
	if err := s.checkReady(); err != nil {
		return Task{}, err
	}
	t := Task{ID: s.newID(), Title: strings.TrimSpace(title), Category: strings.TrimSpace(category)}
	if err := s.check(t); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.Insert(s.tasks, 0, t)
	return t, save(s, s.cat.tasks, s.tasks)
}

func (s *State) ToggleTask(id string) (Task, error) {
	if err := s.checkReady(); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.tasks, id, taskID)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], save(s, s.cat.tasks, s.tasks)
}

func (s *State) RemoveTask(id string) error {
	if err := s.checkReady(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.tasks, id, taskID)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return save(s, s.cat.tasks, s.tasks)
}

// PlanTasks pede ao assistente um roteiro para goal e insere as sugestões no topo,
// na ordem em que vieram. Sugestões que não passam na validação são descartadas.
func (s *State) PlanTasks(ctx context.Context, goal string) ([]Task, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	if s.ai == nil {
		return nil, ErrNoAssistant
	}

	suggestions, err := s.ai.GenerateTasks(ctx, goal)
	if err != nil {
		return nil, err
	}

	added := make([]Task, 0, len(suggestions))
	for _, sug := range suggestions {
		t := Task{ID: s.newID(), Title: sug.Title, Category: sug.Category}
		if err := s.check(t); err != nil {
			s.log.WithError(err).WithField("title", sug.Title).Debug("discarding suggested task")
			continue
		}
		added = append(added, t)
	}
	if len(added) == 0 {
		return added, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.Insert(s.tasks, 0, added...)
	return added, save(s, s.cat.tasks, s.tasks)
}
