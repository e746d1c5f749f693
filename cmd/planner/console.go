package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"planner-core/appstate"
	"planner-core/assistant"
	"planner-core/identity"
	pinfra "planner-core/persistence/infra"
	queue "planner-core/queue/application"
)

const help = `comandos:
  chat <mensagem>
  tasks | tasks add <título> | <categoria> | tasks toggle <id> | tasks rm <id>
  plan <objetivo>
  suppliers <busca>
  image [1:1|16:9|9:16] <descrição>
  guests | guest add <nome> | guest status <id> <Pendente|Confirmado|Recusado> | guest notify <id> | guest rm <id>
  impersonate <id> | restore | whoami
  theme [light|dark]
  status
  quit`

var errQuit = errors.New("quit")

// console é a interface de linha de comando sobre State.
type console struct {
	state   *appstate.State
	limiter *queue.Limiter
	writes  *pinfra.WritePool
	out     io.Writer
}

// run lê comandos de in até EOF, "quit" ou ctx encerrar.
func (c *console) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(c.out, `digite "help" para ver os comandos`)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := c.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "erro: %v\n", err)
			}
		}
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return nil
	case "help":
		fmt.Fprintln(c.out, help)
	case "quit", "exit":
		return errQuit
	case "chat":
		return c.chat(ctx, rest)
	case "tasks":
		return c.tasks(rest)
	case "plan":
		added, err := c.state.PlanTasks(ctx, rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%d tarefas adicionadas\n", len(added))
		c.printTasks()
	case "suppliers":
		reply, err := c.state.SearchSuppliers(ctx, rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, reply.Text)
		printSources(c.out, reply.Sources)
	case "image":
		return c.image(ctx, rest)
	case "guests":
		c.printGuests()
	case "guest":
		return c.guest(rest)
	case "impersonate":
		p, err := c.state.Impersonate(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "visualizando como %s (%s)\n", p.Name, p.Role)
	case "restore":
		p, err := c.state.Restore()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "de volta como %s\n", p.Name)
	case "whoami":
		c.whoami()
	case "theme":
		if rest == "" {
			fmt.Fprintln(c.out, c.state.Theme())
			return nil
		}
		return c.state.SetTheme(appstate.Theme(rest))
	case "status":
		c.status()
	default:
		return fmt.Errorf("comando desconhecido %q", cmd)
	}
	return nil
}

func (c *console) chat(ctx context.Context, prompt string) error {
	printed := 0
	answer, err := c.state.SendMessage(ctx, prompt, "", func(cumulative string) {
		if len(cumulative) > printed {
			fmt.Fprint(c.out, cumulative[printed:])
			printed = len(cumulative)
		}
	})
	if err != nil {
		return err
	}
	if printed < len(answer.Content) {
		fmt.Fprint(c.out, answer.Content[printed:])
	}
	fmt.Fprintln(c.out)
	printSources(c.out, answer.Sources)
	return nil
}

func (c *console) tasks(args string) error {
	sub, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)
	switch sub {
	case "":
		c.printTasks()
		return nil
	case "add":
		title, category, _ := strings.Cut(rest, "|")
		t, err := c.state.AddTask(title, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "tarefa %s criada\n", t.ID)
	case "toggle":
		if _, err := c.state.ToggleTask(rest); err != nil {
			return err
		}
		c.printTasks()
	case "rm":
		return c.state.RemoveTask(rest)
	default:
		return fmt.Errorf("uso: tasks [add|toggle|rm]")
	}
	return nil
}

func (c *console) guest(args string) error {
	sub, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)
	switch sub {
	case "add":
		g, err := c.state.AddGuest(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "convidado %s adicionado\n", g.ID)
	case "status":
		id, status, _ := strings.Cut(rest, " ")
		if _, err := c.state.SetGuestStatus(id, appstate.GuestStatus(strings.TrimSpace(status))); err != nil {
			return err
		}
		c.printGuests()
	case "notify":
		if _, err := c.state.MarkGuestNotified(rest); err != nil {
			return err
		}
		c.printGuests()
	case "rm":
		return c.state.RemoveGuest(rest)
	default:
		return fmt.Errorf("uso: guest [add|status|notify|rm]")
	}
	return nil
}

func (c *console) image(ctx context.Context, args string) error {
	ratio := assistant.AspectSquare
	if first, rest, ok := strings.Cut(args, " "); ok && assistant.AspectRatio(first).Valid() {
		ratio, args = assistant.AspectRatio(first), rest
	}
	a, err := c.state.GenerateImage(ctx, args, ratio)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "imagem %s (%s, %d bytes de data URI)\n", a.ID, a.AspectRatio, len(a.URL))
	return nil
}

func (c *console) printTasks() {
	tasks := c.state.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "nenhuma tarefa")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(c.out, "[%s] %s  %s (%s)\n", mark, t.ID, t.Title, t.Category)
	}
}

func (c *console) printGuests() {
	for _, g := range c.state.Guests() {
		notified := ""
		if g.Notified {
			notified = " notificado"
		}
		fmt.Fprintf(c.out, "%s  %s  %s%s\n", g.ID, g.Name, g.Status, notified)
	}
}

func (c *console) whoami() {
	active, original, imp := c.state.Whoami()
	if imp {
		fmt.Fprintf(c.out, "visualizando como %s (%s); voltar para %s\n", active.Name, active.Role, original.Name)
	} else {
		fmt.Fprintf(c.out, "%s (%s)\n", active.Name, active.Role)
	}

	var visible []string
	for _, m := range identity.Modules {
		acc := c.state.Visibility(m)
		switch {
		case acc.Locked:
			visible = append(visible, string(m)+"(bloqueado)")
		case acc.Visible:
			visible = append(visible, string(m))
		}
	}
	fmt.Fprintf(c.out, "módulos: %s\n", strings.Join(visible, ", "))

	if managed := c.state.ManagedUsers(); len(managed) > 0 {
		for _, u := range managed {
			fmt.Fprintf(c.out, "  gerencia %s  %s (%s)\n", u.ID, u.Name, u.Role)
		}
	}
}

func (c *console) status() {
	fmt.Fprintf(c.out, "pronto: %v\n", c.state.Ready())
	if c.limiter != nil {
		s := c.limiter.Snapshot()
		fmt.Fprintf(c.out, "fila: pendentes=%d admitidas=%d/%d restantes=%d janela=%s\n",
			s.Pending, s.Admitted, c.limiter.MaxPerWindow(), s.Remaining, c.limiter.Window())
	}
	if c.writes != nil {
		fmt.Fprintf(c.out, "gravações: em curso=%d/%d\n", c.writes.InUse(), c.writes.Size())
	}
	if p, ok := c.state.PortfolioStats(); ok {
		fmt.Fprintf(c.out, "portfólio: clientes=%d mês=%.2f ano=%.2f pendente=%.2f cancelamentos=%d\n",
			p.Clients, p.MonthlyRevenue, p.AnnualRevenue, p.PendingValue, p.CanceledInvoices)
	}
}

func printSources(w io.Writer, sources []assistant.Source) {
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URI
		}
		fmt.Fprintf(w, "  fonte: %s <%s>\n", title, s.URI)
	}
}
