package systems

import (
	"log"

	"github.com/gonewx/linereveal/pkg/components"
	"github.com/gonewx/linereveal/pkg/ecs"
	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// postedTask 投递到下一次布局之后执行的任务
type postedTask struct {
	entity ecs.EntityID
	run    func()
}

// LineRevealSystem 逐行显示文本系统
//
// 职责：
//   - 布局：文本或宽度变化后重新折行，向控制器报告 (W, H, N)
//   - 投递：BindText 的启动任务在布局之后执行（N 已知）
//   - 帧更新：每帧调用控制器的 OnFrame
//   - 分离：Detach 取消动画、丢弃投递的任务并销毁实体
//
// 每次 Update 的顺序固定为 布局 → 投递任务 → 帧更新。
type LineRevealSystem struct {
	entityManager *ecs.EntityManager
	posted        []postedTask
}

// NewLineRevealSystem 创建逐行显示文本系统
func NewLineRevealSystem(em *ecs.EntityManager) *LineRevealSystem {
	return &LineRevealSystem{
		entityManager: em,
		posted:        make([]postedTask, 0),
	}
}

// BindText 绑定文本
//
// 立即替换文本并让控件进入等待状态（整块遮住），
// 动画在下一次布局之后启动。
//
// 返回：
//   - bool: 实体不存在或已分离时返回 false
func (s *LineRevealSystem) BindText(id ecs.EntityID, content string) bool {
	comp, ok := s.component(id)
	if !ok {
		return false
	}

	comp.Text = content
	comp.NeedsLayout = true
	comp.Reveal.Arm()

	s.Post(id, func() {
		if comp.Reveal.Start() {
			log.Printf("[LineRevealSystem] Entity %d started: %d lines, %v", id, comp.Reveal.LineCount(), comp.Reveal.TotalDuration())
		} else {
			log.Printf("[LineRevealSystem] Entity %d has nothing to animate", id)
		}
	})
	return true
}

// SetWidth 修改控件宽度，下一次布局时重新折行
func (s *LineRevealSystem) SetWidth(id ecs.EntityID, width int) {
	comp, ok := s.component(id)
	if !ok || comp.Width == width {
		return
	}
	comp.Width = width
	comp.NeedsLayout = true
}

// Post 投递一个任务，在下一次布局之后执行
func (s *LineRevealSystem) Post(id ecs.EntityID, run func()) {
	s.posted = append(s.posted, postedTask{entity: id, run: run})
}

// Detach 分离控件
// 取消动画、移除该实体所有尚未执行的投递任务，并销毁实体
func (s *LineRevealSystem) Detach(id ecs.EntityID) {
	s.removePosted(id)

	comp, ok := ecs.GetComponent[*components.LineRevealTextComponent](s.entityManager, id)
	if !ok {
		return
	}
	comp.Reveal.Detach()
	s.entityManager.DestroyEntity(id)

	log.Printf("[LineRevealSystem] Entity %d detached", id)
}

// Update 更新所有逐行显示文本
//
// 参数：
//   - deltaTime: 自上一帧以来经过的时间（秒），动画时间取自控制器的时钟，这里不使用
func (s *LineRevealSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.LineRevealTextComponent](s.entityManager)

	for _, id := range entities {
		comp, ok := s.component(id)
		if !ok || !comp.NeedsLayout {
			continue
		}
		s.layout(id, comp)
	}

	s.runPosted()

	for _, id := range entities {
		comp, ok := s.component(id)
		if !ok {
			continue
		}
		wasRunning := comp.Reveal.IsRunning()
		comp.Reveal.OnFrame()
		if wasRunning && !comp.Reveal.IsRunning() {
			log.Printf("[LineRevealSystem] Entity %d reveal complete", id)
		}
	}
}

// layout 折行并向控制器报告测量结果
func (s *LineRevealSystem) layout(id ecs.EntityID, comp *components.LineRevealTextComponent) {
	comp.NeedsLayout = false

	face := comp.Face
	comp.Lines = reveal.WrapLines(comp.Text, float64(comp.Width), func(line string) float64 {
		return text.Advance(line, face)
	})

	if comp.Reveal.Measure(comp.Width, comp.Height(), len(comp.Lines)) {
		log.Printf("[LineRevealSystem] Entity %d re-measured (%dx%d, %d lines), reveal restarted",
			id, comp.Width, comp.Height(), len(comp.Lines))
	}
}

// runPosted 执行本次布局之前投递的任务
// 任务执行期间新投递的任务留到下一次
func (s *LineRevealSystem) runPosted() {
	if len(s.posted) == 0 {
		return
	}
	tasks := s.posted
	s.posted = make([]postedTask, 0)

	for _, task := range tasks {
		if _, ok := s.component(task.entity); !ok {
			continue
		}
		task.run()
	}
}

func (s *LineRevealSystem) removePosted(id ecs.EntityID) {
	kept := s.posted[:0]
	for _, task := range s.posted {
		if task.entity != id {
			kept = append(kept, task)
		}
	}
	s.posted = kept
}

// PendingTasks 尚未执行的投递任务数（用于测试）
func (s *LineRevealSystem) PendingTasks() int {
	return len(s.posted)
}

// component 获取未分离的组件
func (s *LineRevealSystem) component(id ecs.EntityID) (*components.LineRevealTextComponent, bool) {
	comp, ok := ecs.GetComponent[*components.LineRevealTextComponent](s.entityManager, id)
	if !ok || comp.Reveal == nil || comp.Reveal.State() == reveal.StateDetached {
		return nil, false
	}
	return comp, true
}
