package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diyprojects/projects/internal/optional"
	"github.com/diyprojects/projects/internal/projects/domain"
)

// projectService is what the shell needs from service.ProjectService.
type projectService interface {
	AddProject(ctx context.Context, p domain.Project) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int) (*domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	DeleteProject(ctx context.Context, id int) error
}

var menu = []string{
	"1) Add a project",
	"2) List projects",
	"3) Select a project",
	"4) Update project details",
	"5) Delete a project",
}

type shell struct {
	svc projectService
	in  *bufio.Scanner
	out io.Writer
}

func newShell(svc projectService, in io.Reader, out io.Writer) *shell {
	return &shell{svc: svc, in: bufio.NewScanner(in), out: out}
}

// run loops until the user quits or input ends. The selected project lives
// only in this loop and is handed to each action explicitly.
func (s *shell) run(ctx context.Context) {
	var current *domain.Project
	for {
		s.printMenu(current)
		choice, err := s.intInput("Enter a menu selection")
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.println("Exiting the menu.")
				return
			}
			s.println("\nError: " + err.Error() + ". Try again.")
			continue
		}

		choiceVal, ok := choice.Get()
		if !ok {
			s.println("Exiting the menu.")
			return
		}

		var actionErr error
		switch choiceVal {
		case 1:
			actionErr = s.createProject(ctx)
		case 2:
			actionErr = s.listProjects(ctx)
		case 3:
			current, actionErr = s.selectProject(ctx)
		case 4:
			current, actionErr = s.updateProject(ctx, current)
		case 5:
			current, actionErr = s.deleteProject(ctx, current)
		default:
			s.println(fmt.Sprintf("\n%d is not a valid selection. Try again.", choiceVal))
		}
		if errors.Is(actionErr, io.EOF) {
			return
		}
		if actionErr != nil {
			s.println("\nError: " + actionErr.Error() + ". Try again.")
		}
	}
}

func (s *shell) printMenu(current *domain.Project) {
	s.println("\nThese are the available selections. Press the Enter key to quit:")
	for _, line := range menu {
		s.println("  " + line)
	}
	if current == nil {
		s.println("\nYou are not working with a project.")
	} else {
		s.println("\nYou are working with project: " + current.String())
	}
}

func (s *shell) createProject(ctx context.Context) error {
	p, err := s.readDetails(domain.Project{})
	if err != nil {
		return err
	}
	created, err := s.svc.AddProject(ctx, p)
	if err != nil {
		return err
	}
	s.println("You have successfully created project: " + created.String())
	return nil
}

func (s *shell) listProjects(ctx context.Context) error {
	projects, err := s.svc.ListProjects(ctx)
	if err != nil {
		return err
	}
	s.println("\nProjects:")
	for _, p := range projects {
		s.println(fmt.Sprintf("   %d: %s", p.ID, p.Name))
	}
	return nil
}

func (s *shell) selectProject(ctx context.Context) (*domain.Project, error) {
	if err := s.listProjects(ctx); err != nil {
		return nil, err
	}
	id, err := s.requiredID("Enter a project ID to select a project")
	if err != nil {
		return nil, err
	}
	return s.svc.GetProject(ctx, id)
}

func (s *shell) updateProject(ctx context.Context, current *domain.Project) (*domain.Project, error) {
	if current == nil {
		s.println("\nPlease select a project.")
		return nil, nil
	}
	p, err := s.readDetails(*current)
	if err != nil {
		return current, err
	}
	if err := s.svc.UpdateProject(ctx, p); err != nil {
		return current, err
	}
	return s.svc.GetProject(ctx, p.ID)
}

func (s *shell) deleteProject(ctx context.Context, current *domain.Project) (*domain.Project, error) {
	if err := s.listProjects(ctx); err != nil {
		return current, err
	}
	id, err := s.requiredID("Enter the ID of the project to delete")
	if err != nil {
		return current, err
	}
	if err := s.svc.DeleteProject(ctx, id); err != nil {
		return current, err
	}
	s.println(fmt.Sprintf("Project %d was deleted successfully.", id))
	if current != nil && current.ID == id {
		return nil, nil
	}
	return current, nil
}

// readDetails prompts for each root-row field, keeping the value from base
// when the answer is blank.
func (s *shell) readDetails(base domain.Project) (domain.Project, error) {
	p := base

	name, err := s.stringInput(fmt.Sprintf("Enter the project name [%s]", base.Name))
	if err != nil {
		return p, err
	}
	if v, ok := name.Get(); ok {
		p.Name = v
	}

	est, err := s.decimalInput(fmt.Sprintf("Enter the estimated hours [%s]", base.EstimatedHours.StringFixed(domain.HoursScale)))
	if err != nil {
		return p, err
	}
	if v, ok := est.Get(); ok {
		p.EstimatedHours = v
	}

	act, err := s.decimalInput(fmt.Sprintf("Enter the actual hours [%s]", base.ActualHours.StringFixed(domain.HoursScale)))
	if err != nil {
		return p, err
	}
	if v, ok := act.Get(); ok {
		p.ActualHours = v
	}

	diff, err := s.intInput(fmt.Sprintf("Enter the project difficulty (1-5) [%s]", base.Difficulty))
	if err != nil {
		return p, err
	}
	if diff.IsPresent() {
		p.Difficulty = diff
	}

	notes, err := s.stringInput(fmt.Sprintf("Enter the project notes [%s]", base.Notes))
	if err != nil {
		return p, err
	}
	if notes.IsPresent() {
		p.Notes = notes
	}
	return p, nil
}

func (s *shell) requiredID(prompt string) (int, error) {
	id, err := s.intInput(prompt)
	if err != nil {
		return 0, err
	}
	v, ok := id.Get()
	if !ok {
		return 0, errors.New("a project ID is required")
	}
	return v, nil
}

func (s *shell) stringInput(prompt string) (optional.Optional[string], error) {
	fmt.Fprint(s.out, prompt+": ")
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return optional.Empty[string](), err
		}
		return optional.Empty[string](), io.EOF
	}
	line := strings.TrimSpace(s.in.Text())
	if line == "" {
		return optional.Empty[string](), nil
	}
	return optional.Of(line), nil
}

func (s *shell) intInput(prompt string) (optional.Optional[int], error) {
	in, err := s.stringInput(prompt)
	if err != nil {
		return optional.Empty[int](), err
	}
	v, ok := in.Get()
	if !ok {
		return optional.Empty[int](), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return optional.Empty[int](), fmt.Errorf("%s is not a valid number", v)
	}
	return optional.Of(n), nil
}

func (s *shell) decimalInput(prompt string) (optional.Optional[decimal.Decimal], error) {
	in, err := s.stringInput(prompt)
	if err != nil {
		return optional.Empty[decimal.Decimal](), err
	}
	v, ok := in.Get()
	if !ok {
		return optional.Empty[decimal.Decimal](), nil
	}
	d, err := domain.ParseHours(v)
	if err != nil {
		return optional.Empty[decimal.Decimal](), fmt.Errorf("%s is not a valid decimal number", v)
	}
	return optional.Of(d), nil
}

func (s *shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
