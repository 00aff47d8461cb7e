// Package tui renders the casino over a local session using Bubble Tea.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/scrapyard/trashpoker/internal/deck"
	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
	"github.com/scrapyard/trashpoker/internal/trash"
)

type mode int

const (
	modePlay mode = iota
	modeShop
	modeTrash
)

const (
	logLines      = 6
	trashSpawnGap = 800 * time.Millisecond
	refreshEvery  = 250 * time.Millisecond
)

// refreshMsg re-reads the session snapshot; the auto-settle timer changes
// state without a keypress, so the view polls.
type refreshMsg struct{}

// trashTickMsg drives spawning in the scavenging minigame.
type trashTickMsg struct{}

// Model is the Bubble Tea model for a local game session.
type Model struct {
	session *game.Session
	logger  *log.Logger

	bet       textinput.Model
	shopItems []economy.Item

	mode      mode
	scavenger *trash.Scavenger
	trashRng  func() *trash.Scavenger
	gameLog   []string
	statusErr string
	lastOdds  *game.Odds

	width    int
	height   int
	quitting bool
}

// NewModel creates the TUI over an existing session. The scavenger factory
// is invoked each time the player goes broke.
func NewModel(session *game.Session, scavenger func() *trash.Scavenger, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "bet amount"
	ti.Focus()
	ti.CharLimit = 10
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		session:   session,
		logger:    logger.WithPrefix("tui"),
		bet:       ti,
		shopItems: session.Catalog().Items(),
		trashRng:  scavenger,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refreshTick())
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return refreshMsg{} })
}

func trashTick() tea.Cmd {
	return tea.Tick(trashSpawnGap, func(time.Time) tea.Msg { return trashTickMsg{} })
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case refreshMsg:
		if m.maybeEnterTrash() {
			cmds = append(cmds, trashTick())
		}
		cmds = append(cmds, refreshTick())

	case trashTickMsg:
		if m.mode == modeTrash && m.scavenger != nil {
			item := m.scavenger.Spawn()
			m.scavenger.Sweep()
			if item.Kind == trash.RareCoin {
				m.appendLog(SuccessStyle.Render("A rare coin glints in the garbage!"))
			}
			cmds = append(cmds, trashTick())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.mode != modePlay && msg.String() == "esc" {
				m.leaveOverlay()
				break
			}
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		default:
			cmds = append(cmds, m.handleKey(msg))
		}
	}

	if m.mode == modePlay && m.session.State() == game.StateIdle {
		var cmd tea.Cmd
		m.bet, cmd = m.bet.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) leaveOverlay() {
	if m.mode == modeTrash {
		if m.session.Balance() <= 0 {
			// Broke players scavenge until they can afford to play.
			return
		}
		m.bankTrash()
		return
	}
	m.mode = modePlay
}

// maybeEnterTrash reports whether scavenging just started.
func (m *Model) maybeEnterTrash() bool {
	if m.mode == modeTrash {
		return false
	}
	if m.session.Balance() <= 0 && m.session.State() == game.StateIdle {
		m.mode = modeTrash
		m.scavenger = m.trashRng()
		m.appendLog(WarningStyle.Render("You're broke. Time to pick up trash."))
		return true
	}
	return false
}

// bankTrash returns to the tables once scavenging has earned something.
func (m *Model) bankTrash() {
	if m.scavenger != nil {
		m.appendLog(fmt.Sprintf("Scavenged %d gc from %d pieces of trash.",
			m.scavenger.Earned(), m.scavenger.Picked()))
	}
	m.scavenger = nil
	m.mode = modePlay
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.statusErr = ""
	key := msg.String()

	switch m.mode {
	case modeShop:
		m.handleShopKey(key)
		return nil
	case modeTrash:
		return m.handleTrashKey(key)
	}

	switch m.session.State() {
	case game.StateIdle:
		switch key {
		case "enter":
			m.deal()
		case "tab":
			m.mode = modeShop
		}

	case game.StateDealt:
		switch key {
		case "1", "2", "3", "4", "5":
			index, _ := strconv.Atoi(key)
			m.report(m.session.ToggleSelect(index - 1))
		case "d":
			settlement, err := m.session.Discard()
			m.settle(settlement, err)
		case "s":
			settlement, err := m.session.Stand()
			m.settle(settlement, err)
		case "m":
			if err := m.session.Mulligan(); err != nil {
				m.report(err)
			} else {
				m.appendLog("Mulligan! Fresh cards, bet returned.")
			}
		}

	case game.StateEvaluated:
		switch key {
		case "c":
			m.report(m.session.Collect())
		case "d":
			if err := m.session.EnterDouble(); err != nil {
				m.report(err)
			} else {
				m.lastOdds = nil
			}
		}

	case game.StateDoubling:
		switch key {
		case "h":
			m.guess(game.High)
		case "l":
			m.guess(game.Low)
		case "c":
			if err := m.session.CashOut(); err != nil {
				m.report(err)
			} else {
				m.appendLog(SuccessStyle.Render("Cashed out."))
			}
		case "o":
			if odds, ok := m.session.DoubleOdds(); ok {
				m.lastOdds = &odds
			} else {
				m.statusErr = "Odds need the double-or-nothing master powerup"
			}
		}
	}
	return nil
}

func (m *Model) handleShopKey(key string) {
	index, err := strconv.Atoi(key)
	if err != nil || index < 1 || index > len(m.shopItems) {
		return
	}
	item := m.shopItems[index-1]
	balance, err := m.session.Purchase(item)
	if err != nil {
		m.report(err)
		return
	}
	m.appendLog(SuccessStyle.Render(fmt.Sprintf("Bought %s. Balance %d gc.", item, balance)))
}

func (m *Model) handleTrashKey(key string) tea.Cmd {
	if m.scavenger == nil {
		return nil
	}
	index, err := strconv.Atoi(key)
	if err != nil {
		return nil
	}
	items := m.scavenger.Items()
	if index < 1 || index > len(items) {
		return nil
	}
	value, err := m.scavenger.Collect(items[index-1].ID)
	if err != nil {
		return nil
	}
	m.session.CreditExternal(value)
	if value > trash.TrashValue {
		m.appendLog(SuccessStyle.Render(fmt.Sprintf("Rare coin! +%d gc", value)))
	}
	return nil
}

func (m *Model) deal() {
	value := strings.TrimSpace(m.bet.Value())
	bet, err := strconv.Atoi(value)
	if err != nil {
		m.statusErr = "Bet must be a number"
		return
	}
	if err := m.session.Deal(bet); err != nil {
		m.report(err)
		return
	}
	m.bet.SetValue("")
}

func (m *Model) settle(settlement game.Settlement, err error) {
	if err != nil {
		m.report(err)
		return
	}
	line := fmt.Sprintf("%s pays %d gc (x%.1f)", settlement.Category, settlement.Payout, settlement.Multiplier)
	if settlement.Payout > 0 {
		m.appendLog(SuccessStyle.Render(line))
	} else {
		m.appendLog(ErrorStyle.Render(line))
		if settlement.InsuranceRefund > 0 {
			m.appendLog(WarningStyle.Render(fmt.Sprintf("Insurance refunds %d gc.", settlement.InsuranceRefund)))
		}
	}
}

func (m *Model) guess(dir game.Direction) {
	result, err := m.session.Guess(dir)
	if err != nil {
		m.report(err)
		return
	}
	m.lastOdds = nil
	if !result.Won {
		m.appendLog(ErrorStyle.Render(fmt.Sprintf("Mystery card %s. Stake feeds the jackpot.", result.Mystery)))
		return
	}
	if result.Finished {
		msg := fmt.Sprintf("Survived round %d! Stake %d gc", result.Round, result.Stake)
		if result.JackpotWon > 0 {
			msg += fmt.Sprintf(" plus the %d gc jackpot", result.JackpotWon)
		}
		m.appendLog(SuccessStyle.Render(msg + "."))
		return
	}
	m.appendLog(SuccessStyle.Render(fmt.Sprintf("Mystery card %s. Stake doubles to %d gc.", result.Mystery, result.Stake)))
}

func (m *Model) report(err error) {
	if err != nil {
		m.statusErr = err.Error()
	}
}

func (m *Model) appendLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > logLines {
		m.gameLog = m.gameLog[len(m.gameLog)-logLines:]
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" TRASH POKER "))
	b.WriteString("  ")
	b.WriteString(BalanceStyle.Render(fmt.Sprintf("Balance: %d gc", snap.Balance)))
	b.WriteString("  ")
	b.WriteString(JackpotStyle.Render(fmt.Sprintf("Jackpot: %d gc", snap.Jackpot)))
	b.WriteString("\n")
	b.WriteString(m.renderPowerups(snap))
	b.WriteString("\n\n")

	switch m.mode {
	case modeShop:
		b.WriteString(m.renderShop())
	case modeTrash:
		b.WriteString(m.renderTrash())
	default:
		b.WriteString(m.renderTable(snap))
	}

	b.WriteString("\n")
	for _, entry := range m.gameLog {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	if m.statusErr != "" {
		b.WriteString(ErrorStyle.Render(m.statusErr))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(m.helpLine(snap)))
	return b.String()
}

func (m *Model) renderPowerups(snap game.Snapshot) string {
	p := snap.Powerups
	parts := []string{}
	if p.WildcardsInDeck > 0 {
		parts = append(parts, fmt.Sprintf("wild x%d", p.WildcardsInDeck))
	}
	if p.Lucky > 0 {
		parts = append(parts, fmt.Sprintf("lucky x%d", p.Lucky))
	}
	if p.Insurance > 0 {
		parts = append(parts, fmt.Sprintf("insurance x%d", p.Insurance))
	}
	if p.Mulligan > 0 {
		parts = append(parts, fmt.Sprintf("mulligan x%d", p.Mulligan))
	}
	if p.JokersWild > 0 {
		parts = append(parts, fmt.Sprintf("jokers x%d", p.JokersWild))
	}
	if p.PassiveIncome > 0 {
		parts = append(parts, fmt.Sprintf("income +%d", p.PassiveIncome))
	}
	if p.CompoundInterest > 0 {
		parts = append(parts, fmt.Sprintf("interest %d%%", p.CompoundInterest))
	}
	if p.DoubleOrNothingMaster {
		parts = append(parts, "don master")
	}
	if len(parts) == 0 {
		return InfoStyle.Render("no powerups")
	}
	return InfoStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderTable(snap game.Snapshot) string {
	var b strings.Builder

	switch snap.State {
	case game.StateIdle:
		b.WriteString("Place your bet and press enter to deal.\n\n")
		b.WriteString(m.bet.View())
		b.WriteString("\n")

	case game.StateDealt, game.StateEvaluated:
		b.WriteString(m.renderHand(snap))
		b.WriteString("\n")
		if snap.Settlement != nil {
			line := fmt.Sprintf("%s  x%.1f  %d gc", snap.Settlement.Category,
				snap.Settlement.Multiplier, snap.Settlement.Payout)
			if snap.Settlement.Payout > 0 {
				b.WriteString(SuccessStyle.Render(line))
			} else {
				b.WriteString(ErrorStyle.Render(line))
			}
			b.WriteString("\n")
		}

	case game.StateDoubling:
		if snap.Double != nil {
			b.WriteString(fmt.Sprintf("Double or nothing: round %d, stake %d gc\n\n",
				snap.Double.Round, snap.Double.Stake))
			b.WriteString("Shown card: ")
			b.WriteString(m.formatCard(snap.Double.Shown, false))
			b.WriteString("   Mystery card: ")
			b.WriteString(BlackCardStyle.Render("??"))
			b.WriteString("\n")
			if m.lastOdds != nil {
				b.WriteString(WarningStyle.Render(fmt.Sprintf("higher %d%% · lower %d%% · tie %d%%",
					m.lastOdds.Higher, m.lastOdds.Lower, m.lastOdds.Tie)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (m *Model) renderHand(snap game.Snapshot) string {
	selected := make(map[int]bool, len(snap.Selected))
	for _, index := range snap.Selected {
		selected[index] = true
	}

	var cards []string
	for i, card := range snap.Hand {
		label := fmt.Sprintf("%d:%s", i+1, m.formatCard(card, selected[i]))
		cards = append(cards, label)
	}
	return "[" + strings.Join(cards, "  ") + "]"
}

func (m *Model) formatCard(card deck.Card, selected bool) string {
	switch {
	case selected:
		return SelectedCardStyle.Render(card.String())
	case card.Wild:
		return WildCardStyle.Render(card.String())
	case card.IsRed():
		return RedCardStyle.Render(card.String())
	default:
		return BlackCardStyle.Render(card.String())
	}
}

func (m *Model) renderShop() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" POWERUP SHOP "))
	b.WriteString("\n\n")

	catalog := m.session.Catalog()
	snap := m.session.Snapshot()
	ledger := &economy.Ledger{Balance: snap.Balance, Jackpot: snap.Jackpot, Powerups: snap.Powerups}
	for i, item := range m.shopItems {
		price, err := catalog.Price(ledger, item)
		if err != nil {
			continue
		}
		b.WriteString(ShopItemStyle.Render(fmt.Sprintf("%d. %-18s %5d gc  %s", i+1, item, price, catalog.Describe(item))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderTrash() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" SCRAPYARD "))
	b.WriteString("\n\n")
	if m.scavenger == nil {
		return b.String()
	}

	items := m.scavenger.Items()
	if len(items) == 0 {
		b.WriteString(InfoStyle.Render("Waiting for trash to blow in..."))
		b.WriteString("\n")
	}
	for i, item := range items {
		if i >= 9 {
			break
		}
		style := TrashStyle
		if item.Kind == trash.RareCoin {
			style = BalanceStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%d. %s", i+1, item.Kind)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(BalanceStyle.Render(fmt.Sprintf("Scavenged: %d gc", m.scavenger.Earned())))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) helpLine(snap game.Snapshot) string {
	switch m.mode {
	case modeShop:
		return "1-8 buy · esc back · ctrl+c quit"
	case modeTrash:
		return "1-9 grab trash · esc back once solvent · ctrl+c quit"
	}
	switch snap.State {
	case game.StateDealt:
		return "1-5 mark cards · d discard · s stand · m mulligan · ctrl+c quit"
	case game.StateEvaluated:
		return "c collect · d double or nothing · ctrl+c quit"
	case game.StateDoubling:
		return "h higher · l lower · c cash out · o odds · ctrl+c quit"
	default:
		return "enter deal · tab shop · ctrl+c quit"
	}
}
