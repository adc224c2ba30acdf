package converter

import (
	"sort"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
)

// AnimationSettings returns the animations to export for an armature object.
// Ranges configured in opts replace those stored in the scene.
func AnimationSettings(scene host.Scene, armatureObject string, opts *Options, log *diag.Logger) []host.AnimationSetting {
	ranges, ok := opts.Animations[armatureObject]
	if !ok {
		return scene.Animations(armatureObject)
	}
	var settings []host.AnimationSetting
	for _, r := range ranges {
		action := scene.Action(r.Action)
		if action == nil {
			log.Errorf("Animation %q refers to unknown action %q.", r.Name, r.Action)
			continue
		}
		settings = append(settings, host.AnimationSetting{Name: r.Name, StartFrame: r.Start, EndFrame: r.End, Action: action})
	}
	return settings
}

// ConvertAnimations resamples the actions of settings into animations of skeleton.
func ConvertAnimations(skeleton *ogre.Skeleton, settings []host.AnimationSetting, fps float64, log *diag.Logger) {
	if fps <= 0 {
		log.Errorf("Invalid frame rate %v, animations of skeleton %q skipped.", fps, skeleton.Name)
		return
	}
	for _, s := range settings {
		if s.Action == nil {
			log.Errorf("Animation %q has no action.", s.Name)
			continue
		}
		anim := ogre.NewAnimation(s.Name)
		for _, ch := range s.Action.Channels() {
			bone := skeleton.Bone(ch.Bone)
			if bone == nil {
				log.Warningf("Unused action channel %q in action %q for skeleton %q.", ch.Bone, s.Action.Name(), skeleton.Name)
				continue
			}
			track := resampleTrack(bone, ch.Curves, &s, fps, log)
			if track == nil {
				continue
			}
			if anim.SetTrack(track) {
				log.Errorf("Ambiguous bone name %q, track already exists.", bone.Name)
			}
			for _, k := range track.KeyFrames {
				if k.Time > anim.Duration {
					anim.Duration = k.Time
				}
			}
		}
		if skeleton.SetAnimation(anim) {
			log.Errorf("Ambiguous animation name %q.", s.Name)
		}
	}
}

// AnimationFrames returns the frames to sample with their times in seconds, ordered by time.
// Keyed frames are truncated to integers, and the range ends are always included.
func AnimationFrames(keyFrames []float64, start, end int, fps float64) (frames []int, times []float64) {
	min, max := start, end
	if start > end {
		min, max = end, start
	}
	set := map[int]bool{start: true, end: true}
	for _, f := range keyFrames {
		frame := int(f)
		if frame >= min && frame <= max {
			set[frame] = true
		}
	}
	for f := range set {
		frames = append(frames, f)
	}
	frameTime := func(f int) float64 {
		if start <= end {
			return float64(f-start) / fps
		}
		return float64(end-f) / fps
	}
	sort.Slice(frames, func(i, j int) bool { return frameTime(frames[i]) < frameTime(frames[j]) })
	for _, f := range frames {
		times = append(times, frameTime(f))
	}
	return
}

func resampleTrack(bone *ogre.Bone, curves []host.Curve, s *host.AnimationSetting, fps float64, log *diag.Logger) *ogre.Track {
	channels, guessed, err := ClassifyChannels(curves)
	if err != nil {
		log.Errorf("Bone %q in action %q: %v. Other host versions may work.", bone.Name, s.Action.Name(), err)
		return nil
	}
	if guessed {
		log.Warningf("Curve names of bone %q in action %q are not available, guessed from the curve count.", bone.Name, s.Action.Name())
	}

	var keyFrames []float64
	for _, c := range curves {
		keyFrames = append(keyFrames, c.KeyFrames()...)
	}
	frames, times := AnimationFrames(keyFrames, s.StartFrame, s.EndFrame, fps)

	eval := func(index int, frame float64, def float64) float64 {
		if index < 0 {
			return def
		}
		return curves[index].Evaluate(frame)
	}

	track := &ogre.Track{Bone: bone}
	for i, f := range frames {
		frame := float64(f)
		k := &ogre.KeyFrame{
			Time:  times[i],
			Loc:   geom.NewVector3(0, 0, 0),
			Rot:   geom.NewIdentityQuaternion(),
			Scale: geom.NewVector3(1, 1, 1),
		}
		if channels.HasLoc() {
			raw := geom.NewVector3(
				eval(channels.Loc[0], frame, 0),
				eval(channels.Loc[1], frame, 0),
				eval(channels.Loc[2], frame, 0))
			k.Loc = bone.ConversionMatrix.ApplyTo(raw)
		}
		if channels.HasQuat() {
			k.Rot = geom.NewQuaternion(
				eval(channels.Quat[0], frame, 0),
				eval(channels.Quat[1], frame, 0),
				eval(channels.Quat[2], frame, 0),
				eval(channels.Quat[3], frame, 1)).Normalize()
		}
		if channels.HasSize() {
			k.Scale = geom.NewVector3(
				eval(channels.Size[0], frame, 1),
				eval(channels.Size[1], frame, 1),
				eval(channels.Size[2], frame, 1))
		}
		track.KeyFrames = append(track.KeyFrames, k)
	}
	return track
}
