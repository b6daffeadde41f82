package entities

import (
	"log"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// NewHelpPanelEntity 创建帮助面板实体（默认隐藏）
//
// 面板高度按行数计算，宽度固定为 config.HelpPanelWidth。
func NewHelpPanelEntity(em *ecs.EntityManager, title string, lines []string) ecs.EntityID {
	id := em.CreateEntity()
	height := 2*config.HelpPanelPadding + config.HelpPanelTitleSize*1.5 +
		float64(len(lines))*config.HelpPanelLineHeight
	ecs.AddComponent(em, id, &components.HelpPanelComponent{
		Title:  title,
		Lines:  append([]string(nil), lines...),
		Width:  config.HelpPanelWidth,
		Height: height,
	})
	log.Printf("[UI Factory] Help panel created (%d lines, %.0fx%.0f)", len(lines), config.HelpPanelWidth, height)
	return id
}

// NewAnnotationDialogEntity 创建留言对话框实体及其输入框（默认隐藏）
//
// 返回对话框实体 ID，输入框实体 ID 记录在 DialogComponent.Input 中。
// 按钮坐标相对对话框左上角，右下角对齐：[确定] [取消]。
func NewAnnotationDialogEntity(em *ecs.EntityManager, title, message string) ecs.EntityID {
	input := em.CreateEntity()
	ecs.AddComponent(em, input, &components.TextInputComponent{
		Width:         config.DialogWidth - 2*config.DialogPadding,
		Height:        config.DialogInputHeight,
		CursorVisible: true,
		MaxLength:     config.DialogMaxLength,
		Placeholder:   "Type your wish...",
	})

	buttonY := config.DialogHeight - config.DialogPadding - config.DialogButtonHeight
	cancelX := config.DialogWidth - config.DialogPadding - config.DialogButtonWidth
	confirmX := cancelX - config.DialogButtonSpacing - config.DialogButtonWidth

	dialog := em.CreateEntity()
	ecs.AddComponent(em, dialog, &components.DialogComponent{
		Title:   title,
		Message: message,
		Buttons: []components.DialogButton{
			{Label: "OK", Role: components.DialogButtonConfirm, X: confirmX, Y: buttonY, Width: config.DialogButtonWidth, Height: config.DialogButtonHeight},
			{Label: "Cancel", Role: components.DialogButtonCancel, X: cancelX, Y: buttonY, Width: config.DialogButtonWidth, Height: config.DialogButtonHeight},
		},
		Width:  config.DialogWidth,
		Height: config.DialogHeight,
		Input:  input,
	})
	return dialog
}
