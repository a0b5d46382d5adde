package bot

import (
	"fmt"
	"html"
	"time"

	"boascontas/internal/core"
)

// Static reply templates, HTML-formatted for Telegram's parse_mode.

const msgStart = `🤖 <b>Olá! Bem-vindo ao Boas Contas!</b>

Para registrar transações, use um dos formatos:

💸 <b>Gastos:</b>
• <code>gasto 50 almoço</code>
• <code>despesa 25.50 café</code>
• <code>-30 transporte</code>

💰 <b>Receitas:</b>
• <code>receita 1000 salário</code>
• <code>renda 500 freelance</code>
• <code>+200 venda</code>

<i>Nota: Para usar este bot, você precisa estar registrado no sistema.</i>`

const msgHelp = `ℹ️ <b>Comandos disponíveis:</b>

/start - Iniciar o bot
/help - Mostrar esta ajuda

<b>Formatos de transação:</b>
• <code>[tipo] [valor] [descrição]</code>
• <code>[valor] [tipo] [descrição]</code>
• <code>[+/-][valor] [descrição]</code>

<b>Tipos aceitos:</b> gasto, despesa, receita, renda`

const msgUnlinked = `❌ <b>Usuário não encontrado!</b>

Para usar este bot, você precisa:
1. Criar uma conta no sistema
2. Vincular seu Telegram ao perfil

<i>Entre em contato com o suporte para mais informações.</i>`

const msgFormatError = `❓ <b>Formato não reconhecido!</b>

Use um dos formatos:
• <code>gasto 50 almoço</code>
• <code>receita 1000 salário</code>
• <code>-25.50 café</code>
• <code>+500 freelance</code>

Digite /help para mais informações.`

const msgNoFamily = `❌ <b>Família não encontrada!</b>

Você precisa estar em uma família para registrar transações.
Acesse o sistema para criar ou participar de uma família.`

const msgPersistError = `❌ <b>Erro ao registrar transação!</b>

Tente novamente ou entre em contato com o suporte.`

// confirmationMessage renders the success reply. Category name is optional;
// the short reference is the first 8 characters of the stored id.
func confirmationMessage(tx ParsedTransaction, categoryName, txID string, date time.Time) string {
	icon, label := "💸", "Gasto"
	if tx.Type == core.Income {
		icon, label = "💰", "Receita"
	}
	categoryText := ""
	if categoryName != "" {
		categoryText = " (" + html.EscapeString(categoryName) + ")"
	}
	ref := txID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf(`✅ <b>Transação registrada!</b>

%s <b>%s:</b> R$ %s
📝 <b>Descrição:</b> %s%s
📅 <b>Data:</b> %s

<i>Transação #%s</i>`,
		icon, label, tx.Amount.FormatBR(),
		html.EscapeString(tx.Description), categoryText,
		date.Format("02/01/2006"), ref)
}
